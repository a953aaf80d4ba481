package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"maisonlux-backend/models"
)

// MemoryStore is a mutex-guarded Inventory kept for tests and local runs
// without a database. Reservation semantics match MongoStore: the decrement
// happens only while the lock is held and stock covers the quantity.
type MemoryStore struct {
	mu sync.RWMutex

	products map[string]*models.Product
	orders   map[string]*models.Order // keyed by order code
	carts    map[string][]models.CartItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]*models.Product),
		orders:   make(map[string]*models.Order),
		carts:    make(map[string][]models.CartItem),
	}
}

// AddProduct seeds a product and returns its generated hex ID.
func (s *MemoryStore) AddProduct(p models.Product) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	id := p.ID.Hex()
	s.products[id] = &p
	return id
}

// Stock returns the current stock level, or -1 for an unknown product.
func (s *MemoryStore) Stock(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return -1
	}
	return p.Stock
}

// Orders returns every stored order.
func (s *MemoryStore) Orders() []*models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out
}

func (s *MemoryStore) Product(ctx context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok || !p.Active {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ReserveStock(ctx context.Context, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok || !p.Active {
		return ErrProductNotFound
	}
	if p.Stock < qty {
		return &InsufficientStockError{ProductID: productID}
	}
	p.Stock -= qty
	return nil
}

func (s *MemoryStore) ReleaseStock(ctx context.Context, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	p.Stock += qty
	return nil
}

func (s *MemoryStore) InsertOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.Code]; exists {
		return ErrDuplicateOrderCode
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	cp := *order
	s.orders[order.Code] = &cp
	return nil
}

func (s *MemoryStore) ClearCart(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	return nil
}
