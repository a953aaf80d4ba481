package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product defines the structure for a catalogue product.
type Product struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Brand       string             `json:"brand" bson:"brand"`
	Gender      string             `json:"gender" bson:"gender"`
	Categories  []string           `json:"categories" bson:"categories"`
	Price       float64            `json:"price" bson:"price"`
	Discount    float64            `json:"discount" bson:"discount"`
	Stock       int                `json:"stock" bson:"stock"`
	Description string             `json:"description" bson:"description"`
	Image       string             `json:"image" bson:"image"`
	ImageURL    string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Active      bool               `json:"active" bson:"active"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
	ImageBase64 string             `json:"image_base64,omitempty" bson:"-"`
}

// UpdateProductRequest defines the structure for an admin product edit.
// Pointer fields distinguish "not sent" from a zero value, so an edit that
// omits stock or active leaves them alone.
type UpdateProductRequest struct {
	Name        *string   `json:"name"`
	Brand       *string   `json:"brand"`
	Gender      *string   `json:"gender"`
	Categories  *[]string `json:"categories"`
	Price       *float64  `json:"price"`
	Discount    *float64  `json:"discount"`
	Stock       *int      `json:"stock"`
	Description *string   `json:"description"`
	Active      *bool     `json:"active"`
	ImageBase64 string    `json:"image_base64"`
}

// ProductFilter carries the catalogue query parameters.
type ProductFilter struct {
	Search   string
	Brand    string
	Gender   string
	Category string
	MinPrice float64
	MaxPrice float64
}

// Stats defines the structure for the admin dashboard numbers.
type Stats struct {
	TotalProducts  int64   `json:"total_products"`
	TotalUsers     int64   `json:"total_users"`
	TotalOrders    int64   `json:"total_orders"`
	Revenue        float64 `json:"revenue"`
	InventoryValue float64 `json:"inventory_value"`
}

// NormalizeDescription collapses a product description to a single line.
func NormalizeDescription(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
