package store

import (
	"sync"

	"ordercore/internal/domain"
)

// BracketStore is a thread-safe in-memory store for atomic orders.
type BracketStore struct {
	mu       sync.RWMutex
	brackets map[domain.OrderID]*domain.AtomicOrder
}

// NewBracketStore creates an empty BracketStore.
func NewBracketStore() *BracketStore {
	return &BracketStore{
		brackets: make(map[domain.OrderID]*domain.AtomicOrder),
	}
}

// Create adds an atomic order to the store.
func (s *BracketStore) Create(a *domain.AtomicOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brackets[a.ID] = a
}

// Get retrieves an atomic order by its bracket id. It returns
// domain.ErrBracketNotFound if the bracket does not exist.
func (s *BracketStore) Get(id domain.OrderID) (*domain.AtomicOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.brackets[id]
	if !ok {
		return nil, domain.ErrBracketNotFound
	}
	return a, nil
}
