package store

import (
	"sync"

	"ordercore/internal/domain"
)

// OrderStore is a thread-safe in-memory store for orders, with a
// primary index by order id and a secondary index by symbol.
type OrderStore struct {
	mu           sync.RWMutex
	orders       map[domain.OrderID]*domain.Order
	symbolOrders map[domain.Symbol][]*domain.Order // symbol → orders (append-only)
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders:       make(map[domain.OrderID]*domain.Order),
		symbolOrders: make(map[domain.Symbol][]*domain.Order),
	}
}

// Create adds an order to the store and appends it to the symbol's
// secondary index.
func (s *OrderStore) Create(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[o.ID] = o
	s.symbolOrders[o.Symbol] = append(s.symbolOrders[o.Symbol], o)
}

// Get retrieves an order by id. It returns domain.ErrOrderNotFound if
// the order does not exist.
func (s *OrderStore) Get(id domain.OrderID) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

// ListBySymbol returns orders for a symbol in reverse chronological
// order (newest first). If status is non-nil, only orders matching
// that status are included. Pagination is 1-based. Returns the
// matching orders for the requested page and the total count of
// matching orders (before pagination).
//
// The status filter reads each order's current status; callers must
// not apply events to the returned orders concurrently.
func (s *OrderStore) ListBySymbol(symbol domain.Symbol, status *domain.OrderStatus, page, limit int) ([]*domain.Order, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.symbolOrders[symbol]

	filtered := make([]*domain.Order, 0)
	for i := len(all) - 1; i >= 0; i-- {
		if status != nil && all[i].Status() != *status {
			continue
		}
		filtered = append(filtered, all[i])
	}

	total := len(filtered)

	start := (page - 1) * limit
	if start >= total {
		return []*domain.Order{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return filtered[start:end], total
}
