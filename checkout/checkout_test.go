package checkout

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"maisonlux-backend/models"
	"maisonlux-backend/store"
)

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

func newTestService(inv store.Inventory) *Service {
	return NewService(inv, nil, "USD")
}

func TestPlaceOrderSuccess(t *testing.T) {
	mem := store.NewMemoryStore()
	p1 := mem.AddProduct(models.Product{Name: "Silk Scarf", Price: 120, Stock: 5, Active: true})
	p2 := mem.AddProduct(models.Product{Name: "Leather Belt", Price: 80.50, Stock: 3, Active: true})

	svc := newTestService(mem)
	order, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), []Item{
		{ProductID: p1, Quantity: 2},
		{ProductID: p2, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Regexp(t, codePattern, order.Code)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "USD", order.Currency)
	assert.InDelta(t, 320.50, order.Total, 0.001)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Silk Scarf", order.Items[0].Name)
	assert.InDelta(t, 120, order.Items[0].UnitPrice, 0.001)

	// Stock decreased by exactly the purchased quantities.
	assert.Equal(t, 3, mem.Stock(p1))
	assert.Equal(t, 2, mem.Stock(p2))
	assert.Len(t, mem.Orders(), 1)
}

func TestPlaceOrderAppliesDiscount(t *testing.T) {
	mem := store.NewMemoryStore()
	id := mem.AddProduct(models.Product{Name: "Cashmere Coat", Price: 1000, Discount: 15, Stock: 2, Active: true})

	svc := newTestService(mem)
	order, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), []Item{
		{ProductID: id, Quantity: 2},
	})
	require.NoError(t, err)

	assert.InDelta(t, 850, order.Items[0].UnitPrice, 0.001)
	assert.InDelta(t, 1700, order.Total, 0.001)
}

func TestPlaceOrderInsufficientStockFailsWhole(t *testing.T) {
	mem := store.NewMemoryStore()
	ok := mem.AddProduct(models.Product{Name: "Clutch", Price: 300, Stock: 5, Active: true})
	low := mem.AddProduct(models.Product{Name: "Sandals", Price: 200, Stock: 5, Active: true})

	svc := newTestService(mem)
	_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), []Item{
		{ProductID: ok, Quantity: 2},
		{ProductID: low, Quantity: 10},
	})
	require.Error(t, err)

	var ise *store.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, low, ise.ProductID)

	// Nothing anywhere changed: the first line's reservation was released.
	assert.Equal(t, 5, mem.Stock(ok))
	assert.Equal(t, 5, mem.Stock(low))
	assert.Empty(t, mem.Orders())
}

func TestPlaceOrderValidation(t *testing.T) {
	mem := store.NewMemoryStore()
	id := mem.AddProduct(models.Product{Name: "Tote", Price: 90, Stock: 4, Active: true})
	svc := newTestService(mem)
	uid := primitive.NewObjectID()

	tests := []struct {
		name    string
		items   []Item
		wantErr error
	}{
		{"empty cart", nil, ErrEmptyCart},
		{"zero quantity", []Item{{ProductID: id, Quantity: 0}}, ErrInvalidQuantity},
		{"negative quantity", []Item{{ProductID: id, Quantity: -1}}, ErrInvalidQuantity},
		{"unknown product", []Item{{ProductID: primitive.NewObjectID().Hex(), Quantity: 1}}, store.ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(context.Background(), uid, tt.items)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 4, mem.Stock(id))
		})
	}
}

func TestPlaceOrderInactiveProduct(t *testing.T) {
	mem := store.NewMemoryStore()
	id := mem.AddProduct(models.Product{Name: "Archive Piece", Price: 500, Stock: 1, Active: false})

	svc := newTestService(mem)
	_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), []Item{
		{ProductID: id, Quantity: 1},
	})
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestConcurrentCheckoutLastUnit(t *testing.T) {
	mem := store.NewMemoryStore()
	id := mem.AddProduct(models.Product{Name: "Limited Watch", Price: 9000, Stock: 1, Active: true})

	svc := newTestService(mem)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.PlaceOrder(context.Background(), primitive.NewObjectID(), []Item{
				{ProductID: id, Quantity: 1},
			})
		}(i)
	}
	wg.Wait()

	var successes, stockErrs int
	for _, err := range results {
		if err == nil {
			successes++
		} else if store.IsInsufficientStock(err) {
			stockErrs++
		}
	}
	assert.Equal(t, 1, successes, "exactly one checkout wins the last unit")
	assert.Equal(t, 1, stockErrs)
	assert.Equal(t, 0, mem.Stock(id))
	assert.Len(t, mem.Orders(), 1)
}

// flakyInventory delegates to a MemoryStore but fails InsertOrder a set
// number of times first.
type flakyInventory struct {
	*store.MemoryStore
	failures int
	err      error
	inserts  int
}

func (f *flakyInventory) InsertOrder(ctx context.Context, order *models.Order) error {
	f.inserts++
	if f.failures > 0 {
		f.failures--
		return f.err
	}
	return f.MemoryStore.InsertOrder(ctx, order)
}

func TestPlaceOrderRetriesDuplicateCode(t *testing.T) {
	mem := store.NewMemoryStore()
	id := mem.AddProduct(models.Product{Name: "Sunglasses", Price: 250, Stock: 3, Active: true})

	inv := &flakyInventory{MemoryStore: mem, failures: 2, err: store.ErrDuplicateOrderCode}
	svc := newTestService(inv)

	order, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), []Item{
		{ProductID: id, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Regexp(t, codePattern, order.Code)
	assert.Equal(t, 3, inv.inserts)
	assert.Equal(t, 2, mem.Stock(id))
}

func TestPlaceOrderGivesUpAfterRepeatedCollisions(t *testing.T) {
	mem := store.NewMemoryStore()
	id := mem.AddProduct(models.Product{Name: "Sunglasses", Price: 250, Stock: 3, Active: true})

	inv := &flakyInventory{MemoryStore: mem, failures: maxCodeAttempts, err: store.ErrDuplicateOrderCode}
	svc := newTestService(inv)

	_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), []Item{
		{ProductID: id, Quantity: 1},
	})
	require.ErrorIs(t, err, store.ErrOrderPersistence)
	assert.Equal(t, 3, mem.Stock(id), "reservation released after giving up")
}

func TestPlaceOrderPersistenceFailureRestoresStock(t *testing.T) {
	mem := store.NewMemoryStore()
	id := mem.AddProduct(models.Product{Name: "Evening Gown", Price: 2200, Stock: 2, Active: true})

	inv := &flakyInventory{MemoryStore: mem, failures: 1, err: errors.New("write concern failure")}
	svc := newTestService(inv)

	_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), []Item{
		{ProductID: id, Quantity: 2},
	})
	require.Error(t, err)
	assert.Equal(t, 2, mem.Stock(id))
	assert.Empty(t, mem.Orders())
}

// cancellingInventory kills the request context while failing the insert and
// only honours releases whose context is still alive, the way a real driver
// call would.
type cancellingInventory struct {
	*store.MemoryStore
	cancel context.CancelFunc
}

func (f *cancellingInventory) InsertOrder(ctx context.Context, order *models.Order) error {
	f.cancel()
	return errors.New("connection reset by peer")
}

func (f *cancellingInventory) ReleaseStock(ctx context.Context, productID string, qty int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.MemoryStore.ReleaseStock(ctx, productID, qty)
}

func TestPlaceOrderRollbackSurvivesDeadRequestContext(t *testing.T) {
	mem := store.NewMemoryStore()
	id := mem.AddProduct(models.Product{Name: "Opera Gloves", Price: 150, Stock: 2, Active: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	inv := &cancellingInventory{MemoryStore: mem, cancel: cancel}
	svc := newTestService(inv)

	_, err := svc.PlaceOrder(ctx, primitive.NewObjectID(), []Item{
		{ProductID: id, Quantity: 2},
	})
	require.Error(t, err)

	// The reservation must come back even though the request context died
	// mid-checkout.
	assert.Equal(t, 2, mem.Stock(id))
	assert.Empty(t, mem.Orders())
}

func TestEffectiveUnitPriceClampsDiscount(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount float64
		want     float64
	}{
		{"no discount", 100, 0, 100},
		{"regular discount", 100, 25, 75},
		{"over 100 percent", 100, 150, 0},
		{"negative", 100, -20, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := effectiveUnitPrice(&models.Product{Price: tt.price, Discount: tt.discount})
			got, _ := unit.Float64()
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestOrderCodeFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := newOrderCode()
		require.Regexp(t, codePattern, code)
		seen[code] = true
	}
	// 1000 draws from 900000 values should produce mostly distinct codes.
	assert.Greater(t, len(seen), 990)
}
