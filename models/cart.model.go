package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem defines one (user, product) row in the carts collection.
type CartItem struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	AddedAt   time.Time          `json:"added_at" bson:"added_at"`
}

// CartLine is a cart item joined with its product for display.
type CartLine struct {
	ProductID primitive.ObjectID `json:"product_id"`
	Name      string             `json:"name"`
	Brand     string             `json:"brand"`
	Quantity  int                `json:"quantity"`
	UnitPrice float64            `json:"unit_price"`
	LineTotal float64            `json:"line_total"`
}

// AddToCartRequest defines the structure for an add-to-cart request.
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// UpdateCartItemRequest defines the structure for a quantity update.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}
