package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maisonlux-backend/models"
)

func TestReserveStockConditional(t *testing.T) {
	s := NewMemoryStore()
	id := s.AddProduct(models.Product{Name: "Loafers", Price: 400, Stock: 3, Active: true})
	ctx := context.Background()

	require.NoError(t, s.ReserveStock(ctx, id, 2))
	assert.Equal(t, 1, s.Stock(id))

	err := s.ReserveStock(ctx, id, 2)
	require.Error(t, err)
	assert.True(t, IsInsufficientStock(err))
	assert.Equal(t, 1, s.Stock(id), "failed reservation must not change stock")

	require.NoError(t, s.ReleaseStock(ctx, id, 2))
	assert.Equal(t, 3, s.Stock(id))
}

func TestReserveStockUnknownProduct(t *testing.T) {
	s := NewMemoryStore()
	err := s.ReserveStock(context.Background(), "nope", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestParallelReservationsNeverOversell(t *testing.T) {
	s := NewMemoryStore()
	id := s.AddProduct(models.Product{Name: "Runway Dress", Price: 5000, Stock: 10, Active: true})

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.ReserveStock(context.Background(), id, 1); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, successes)
	assert.Equal(t, 0, s.Stock(id))
}

func TestInsertOrderDuplicateCode(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := &models.Order{Code: "123456"}
	require.NoError(t, s.InsertOrder(ctx, first))
	assert.False(t, first.ID.IsZero())

	err := s.InsertOrder(ctx, &models.Order{Code: "123456"})
	assert.ErrorIs(t, err, ErrDuplicateOrderCode)
}
