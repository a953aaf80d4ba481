// File: checkout/checkout.go
package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"maisonlux-backend/models"
	"maisonlux-backend/notify"
	"maisonlux-backend/store"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidQuantity is returned for a line with quantity <= 0.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// maxCodeAttempts bounds regeneration when a 6-digit code collides with an
// existing order.
const maxCodeAttempts = 5

// Item is one requested cart line.
type Item struct {
	ProductID string
	Quantity  int
}

// Service turns a cart into a persisted order: validates stock, computes
// totals, reserves inventory and writes the order as one logical unit.
type Service struct {
	Inv      store.Inventory
	Notifier *notify.Notifier
	Currency string
}

func NewService(inv store.Inventory, notifier *notify.Notifier, currency string) *Service {
	if currency == "" {
		currency = "USD"
	}
	return &Service{Inv: inv, Notifier: notifier, Currency: currency}
}

// PlaceOrder runs the whole checkout for one user. Any failure leaves stock
// exactly as it was: reservations are taken one line at a time and every
// reserved line is released again if a later step fails.
func (s *Service) PlaceOrder(ctx context.Context, userID primitive.ObjectID, items []Item) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	lines := make([]models.OrderItem, 0, len(items))
	total := decimal.Zero

	// reserved tracks lines whose stock is already decremented, for rollback.
	reserved := make([]Item, 0, len(items))
	rollback := func() {
		// The request context may be the reason the checkout failed (timeout,
		// client abort); releases run on their own context so the reserved
		// stock is never stranded.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, r := range reserved {
			if err := s.Inv.ReleaseStock(ctx, r.ProductID, r.Quantity); err != nil {
				log.Printf("checkout: failed to release %d unit(s) of %s: %v", r.Quantity, r.ProductID, err)
			}
		}
	}

	for _, it := range items {
		p, err := s.Inv.Product(ctx, it.ProductID)
		if err != nil {
			rollback()
			return nil, err
		}

		if err := s.Inv.ReserveStock(ctx, it.ProductID, it.Quantity); err != nil {
			rollback()
			return nil, err
		}
		reserved = append(reserved, it)

		unit := effectiveUnitPrice(p)
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(it.Quantity))))

		price, _ := unit.Float64()
		lines = append(lines, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			UnitPrice: price,
		})
	}

	now := time.Now()
	orderTotal, _ := total.Round(2).Float64()
	order := &models.Order{
		UserID:    userID,
		Items:     lines,
		Total:     orderTotal,
		Currency:  s.Currency,
		Status:    models.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var err error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		order.Code = newOrderCode()
		err = s.Inv.InsertOrder(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrDuplicateOrderCode) {
			rollback()
			return nil, err
		}
	}
	if err != nil {
		// Every attempt collided. Treat it as a persistence failure.
		rollback()
		return nil, store.ErrOrderPersistence
	}

	if err := s.Inv.ClearCart(ctx, userID.Hex()); err != nil {
		log.Printf("checkout: failed to clear cart for user %s: %v", userID.Hex(), err)
	}

	if s.Notifier != nil {
		s.Notifier.Enqueue(order)
	}
	return order, nil
}

// effectiveUnitPrice applies the discount percentage to the list price,
// rounded to cents. The admin endpoints reject discounts outside [0,100];
// the clamp keeps a bad stored value from ever pricing a line negative.
func effectiveUnitPrice(p *models.Product) decimal.Decimal {
	price := decimal.NewFromFloat(p.Price)
	discount := p.Discount
	if discount < 0 {
		discount = 0
	}
	if discount > 100 {
		discount = 100
	}
	if discount > 0 {
		factor := decimal.NewFromFloat(100 - discount).Div(decimal.NewFromInt(100))
		price = price.Mul(factor)
	}
	return price.Round(2)
}
