package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus tracks an order through fulfilment. Transitions happen only
// through the admin endpoints.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order defines the structure for a placed order. Code is the public 6-digit
// identifier; Items are a snapshot taken at checkout and never change.
type Order struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Code      string             `json:"code" bson:"code"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Items     []OrderItem        `json:"items" bson:"items"`
	Total     float64            `json:"total" bson:"total"`
	Currency  string             `json:"currency" bson:"currency"`
	Status    OrderStatus        `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// OrderItem is one line of an order, priced as at purchase.
type OrderItem struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id"`
	Name      string             `json:"name" bson:"name"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	UnitPrice float64            `json:"unit_price" bson:"unit_price"`
}

// UpdateOrderStatusRequest defines the structure for an admin status change.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}
