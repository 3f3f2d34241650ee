package domain

import "time"

// AtomicOrder bundles an entry order with a mandatory protective
// stop-loss and an optional profit target under a single external
// identity. Both legs always carry the side opposite the entry and the
// entry's quantity; the bracket's id is the entry id suffixed "-A" and
// its timestamp equals the entry's.
type AtomicOrder struct {
	ID           OrderID
	Entry        *Order
	StopLoss     *Order
	ProfitTarget *Order // nil when no target was requested
	Timestamp    time.Time
}

// NewAtomicOrder composes a bracket from already-constructed legs.
// profitTarget may be nil.
func NewAtomicOrder(entry, stopLoss, profitTarget *Order) *AtomicOrder {
	return &AtomicOrder{
		ID:           entry.ID + "-A",
		Entry:        entry,
		StopLoss:     stopLoss,
		ProfitTarget: profitTarget,
		Timestamp:    entry.Timestamp,
	}
}

// HasProfitTarget reports whether the optional target leg is present.
func (a *AtomicOrder) HasProfitTarget() bool {
	return a.ProfitTarget != nil
}

// AtomicOrderSnapshot is a point-in-time copy of a bracket and the
// read surfaces of its legs.
type AtomicOrderSnapshot struct {
	ID           OrderID
	Entry        OrderSnapshot
	StopLoss     OrderSnapshot
	ProfitTarget *OrderSnapshot // nil when no target was requested
	Timestamp    time.Time
}

// Snapshot copies the bracket's legs. The caller must hold whatever
// lock serializes Apply on the legs while taking it.
func (a *AtomicOrder) Snapshot() AtomicOrderSnapshot {
	s := AtomicOrderSnapshot{
		ID:        a.ID,
		Entry:     a.Entry.Snapshot(),
		StopLoss:  a.StopLoss.Snapshot(),
		Timestamp: a.Timestamp,
	}
	if a.ProfitTarget != nil {
		pt := a.ProfitTarget.Snapshot()
		s.ProfitTarget = &pt
	}
	return s
}
