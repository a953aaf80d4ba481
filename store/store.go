package store

import (
	"context"
	"errors"
	"fmt"

	"maisonlux-backend/models"
)

var (
	// ErrProductNotFound is returned when a cart references a product that
	// does not exist or is no longer active.
	ErrProductNotFound = errors.New("product not found")

	// ErrDuplicateOrderCode is returned when an order insert hits the unique
	// index on the order code. Callers regenerate the code and retry.
	ErrDuplicateOrderCode = errors.New("duplicate order code")

	// ErrOrderPersistence wraps storage failures while saving an order.
	ErrOrderPersistence = errors.New("order persistence failed")
)

// InsufficientStockError identifies the product that could not be reserved.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}

// Inventory is the storage surface the checkout engine runs against. The
// production implementation is MongoStore; tests use MemoryStore.
type Inventory interface {
	// Product returns an active product by its hex ID.
	Product(ctx context.Context, id string) (*models.Product, error)

	// ReserveStock decrements stock by qty only if the remaining stock would
	// stay non-negative. Exactly one of two racing reservations for the last
	// unit succeeds; the loser gets an InsufficientStockError.
	ReserveStock(ctx context.Context, productID string, qty int) error

	// ReleaseStock gives a reservation back after a failed checkout.
	ReleaseStock(ctx context.Context, productID string, qty int) error

	// InsertOrder persists the order. Returns ErrDuplicateOrderCode when the
	// code is already taken.
	InsertOrder(ctx context.Context, order *models.Order) error

	// ClearCart removes every cart row for the user.
	ClearCart(ctx context.Context, userID string) error
}
