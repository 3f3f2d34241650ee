package domain

import "time"

// Event is one immutable fact reported about an order. The set of
// event types is closed: Order.Apply type-switches over every concrete
// type below, and nothing outside this package can add a case.
type Event interface {
	// Base returns the identity fields shared by all order events.
	Base() EventBase
}

// EventBase carries the identity every order event shares: the symbol
// and order the event describes, the event's own id, and the time the
// event was reported.
type EventBase struct {
	Symbol    Symbol
	OrderID   OrderID
	EventID   EventID
	Timestamp time.Time
}

// Base implements Event for every struct embedding EventBase.
func (b EventBase) Base() EventBase { return b }

// OrderSubmitted reports that the order was sent to the venue.
type OrderSubmitted struct {
	EventBase
	SubmittedTime time.Time
}

// OrderAccepted reports that the venue accepted the order.
type OrderAccepted struct {
	EventBase
	AcceptedTime time.Time
}

// OrderRejected reports that the venue rejected the order. Terminal.
type OrderRejected struct {
	EventBase
	RejectedTime time.Time
	Reason       string
}

// OrderWorking reports that the venue is actively holding the order
// for execution, under the broker-assigned id.
type OrderWorking struct {
	EventBase
	BrokerOrderID OrderID
	Label         *Label
	Side          OrderSide
	Type          OrderType
	Quantity      int64
	Price         Price
	TimeInForce   TimeInForce
	WorkingTime   time.Time
	ExpireTime    *time.Time
}

// OrderModified reports a venue-confirmed modification of a working
// order: a new broker id and a new price.
type OrderModified struct {
	EventBase
	BrokerOrderID OrderID
	ModifiedPrice Price
	ModifiedTime  time.Time
}

// OrderExpired reports that the order lapsed at the venue. Terminal.
type OrderExpired struct {
	EventBase
	ExpiredTime time.Time
}

// OrderCancelled reports that the venue cancelled the order. Terminal.
type OrderCancelled struct {
	EventBase
	CancelledTime time.Time
}

// OrderCancelReject reports that the venue refused a cancel request.
// It records the venue's response and reason and leaves the order's
// status untouched.
type OrderCancelReject struct {
	EventBase
	RejectedTime time.Time
	Response     string
	Reason       string
}

// OrderPartiallyFilled reports an execution that satisfied part of the
// order's quantity.
type OrderPartiallyFilled struct {
	EventBase
	ExecutionID     ExecutionID
	ExecutionTicket ExecutionTicket
	Side            OrderSide
	FilledQuantity  int64
	LeavesQuantity  int64
	AveragePrice    Price
	ExecutionTime   time.Time
}

// OrderFilled reports an execution the venue considers to have
// completed the order.
type OrderFilled struct {
	EventBase
	ExecutionID     ExecutionID
	ExecutionTicket ExecutionTicket
	Side            OrderSide
	FilledQuantity  int64
	AveragePrice    Price
	ExecutionTime   time.Time
}
