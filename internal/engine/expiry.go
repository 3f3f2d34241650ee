package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/btree"

	"ordercore/internal/domain"
)

// ExpiryDispatcher delivers an expiry to the order it concerns. The
// engine layer only decides that an order's expire time has passed;
// building and applying the OrderExpired event is the dispatcher's
// job, so the monitor never mutates an order itself.
type ExpiryDispatcher interface {
	DispatchExpired(orderID domain.OrderID, expiredAt time.Time)
}

// expiryEntry is one GTD order tracked for expiration.
type expiryEntry struct {
	expireTime time.Time
	orderID    domain.OrderID
}

// expiryLess orders entries by expire time ascending, then order id,
// so Min() is always the next order due to expire.
func expiryLess(a, b expiryEntry) bool {
	if !a.expireTime.Equal(b.expireTime) {
		return a.expireTime.Before(b.expireTime)
	}
	return a.orderID < b.orderID
}

// ExpiryMonitor tracks good-till-date orders in a B-tree keyed by
// expire time, with a secondary index for O(log n) removal by order
// id. A background goroutine ticks at the configured interval and
// dispatches every order whose expire time has passed.
type ExpiryMonitor struct {
	interval   time.Duration
	clock      domain.Clock
	dispatcher ExpiryDispatcher

	mu    sync.Mutex
	tree  *btree.BTreeG[expiryEntry]
	index map[domain.OrderID]expiryEntry
}

// NewExpiryMonitor creates a monitor with the given tick interval,
// clock and dispatcher.
func NewExpiryMonitor(interval time.Duration, clock domain.Clock, dispatcher ExpiryDispatcher) *ExpiryMonitor {
	const degree = 32
	return &ExpiryMonitor{
		interval:   interval,
		clock:      clock,
		dispatcher: dispatcher,
		tree:       btree.NewG[expiryEntry](degree, expiryLess),
		index:      make(map[domain.OrderID]expiryEntry),
	}
}

// Add starts tracking an order for expiration. Orders without an
// expire time are ignored; adding the same order twice replaces the
// previous entry.
func (m *ExpiryMonitor) Add(order *domain.Order) {
	if order.ExpireTime == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.index[order.ID]; ok {
		m.tree.Delete(prev)
	}
	entry := expiryEntry{expireTime: *order.ExpireTime, orderID: order.ID}
	m.tree.ReplaceOrInsert(entry)
	m.index[order.ID] = entry
}

// Remove stops tracking an order, typically because it reached a
// terminal status before its expire time.
func (m *ExpiryMonitor) Remove(orderID domain.OrderID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.index[orderID]
	if !ok {
		return
	}
	m.tree.Delete(entry)
	delete(m.index, orderID)
}

// Start launches a background goroutine that ticks at the configured
// interval and dispatches due orders. It stops when ctx is cancelled.
func (m *ExpiryMonitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Tick()
			}
		}
	}()
}

// Tick collects every entry whose expire time is at or before the
// clock's current time and dispatches each one. Dispatch happens
// outside the monitor lock.
func (m *ExpiryMonitor) Tick() {
	now := m.clock.Now()

	m.mu.Lock()
	var due []expiryEntry
	for {
		entry, ok := m.tree.Min()
		if !ok || entry.expireTime.After(now) {
			break
		}
		m.tree.Delete(entry)
		delete(m.index, entry.orderID)
		due = append(due, entry)
	}
	m.mu.Unlock()

	for _, entry := range due {
		m.dispatcher.DispatchExpired(entry.orderID, entry.expireTime)
	}
}

// TrackedCount returns the number of orders currently tracked for
// expiration. Useful for testing.
func (m *ExpiryMonitor) TrackedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.index)
}
