package domain

import "github.com/google/uuid"

// OrderID is the order's own identity. Broker-assigned ids reported by
// the venue reuse this type since they address the same order.
type OrderID string

// Label is an optional caller-supplied tag attached to an order.
type Label string

// ExecutionID identifies a single execution reported by the venue.
type ExecutionID string

// ExecutionTicket is the venue's ticket reference for an execution.
type ExecutionTicket string

// EventID is the 128-bit identity of a single order event, distinct
// from the identity of the order it describes.
type EventID uuid.UUID

// NewEventID returns a random EventID.
func NewEventID() EventID {
	return EventID(uuid.New())
}

// String renders the EventID in canonical UUID form.
func (id EventID) String() string {
	return uuid.UUID(id).String()
}
