package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order is the order lifecycle entity. The construction-time fields
// (Symbol through ExpireTime) never change after NewOrder returns; all
// derived state — status, broker id, price updates, fill metrics and
// the event history — is unexported and mutated only by Apply, so the
// entity can never disagree with its own event history.
//
// An Order is not safe for concurrent use. At most one writer may call
// Apply at a time; callers sharing an order across goroutines must
// serialize access themselves.
type Order struct {
	Symbol      Symbol
	ID          OrderID
	Side        OrderSide
	Type        OrderType
	Quantity    int64
	Timestamp   time.Time
	Label       *Label
	TimeInForce TimeInForce
	ExpireTime  *time.Time

	price          *Price
	brokerOrderID  OrderID
	status         OrderStatus
	events         []Event
	filledQuantity int64
	averagePrice   *Price
	slippage       decimal.Decimal
}

// OrderParams carries the optional order fields. TimeInForce defaults
// to DAY when left empty.
type OrderParams struct {
	Label       *Label
	Price       *Price
	TimeInForce TimeInForce
	ExpireTime  *time.Time
}

// NewOrder validates its arguments and returns an order in status
// INITIALIZED with an empty event history. Construction rules:
//
//   - quantity must be a positive integer;
//   - MARKET orders must not carry a price;
//   - priced types (LIMIT, STOP_MARKET, STOP_LIMIT, MIT) must carry a
//     strictly positive price;
//   - GTD time-in-force requires an expire time.
//
// A violation returns a *ValidationError and no order.
func NewOrder(
	symbol Symbol,
	id OrderID,
	side OrderSide,
	orderType OrderType,
	quantity int64,
	timestamp time.Time,
	params OrderParams,
) (*Order, error) {
	if quantity <= 0 {
		return nil, &ValidationError{
			Message: fmt.Sprintf("order quantity must be a positive integer, got %d", quantity),
		}
	}

	tif := params.TimeInForce
	if tif == "" {
		tif = TIFDay
	}

	if orderType.IsPriced() {
		if params.Price == nil || !params.Price.IsPositive() {
			return nil, &ValidationError{
				Message: fmt.Sprintf("%s orders require a positive price", orderType),
			}
		}
	} else if params.Price != nil {
		return nil, &ValidationError{
			Message: "MARKET orders must not carry a price",
		}
	}

	if tif == TIFGTD && params.ExpireTime == nil {
		return nil, &ValidationError{
			Message: "GTD orders require an expire time",
		}
	}

	return &Order{
		Symbol:      symbol,
		ID:          id,
		Side:        side,
		Type:        orderType,
		Quantity:    quantity,
		Timestamp:   timestamp,
		Label:       params.Label,
		TimeInForce: tif,
		ExpireTime:  params.ExpireTime,
		price:       params.Price,
		status:      StatusInitialized,
	}, nil
}

// Apply folds one venue event into the order: it mutates the derived
// state per the event type and appends the event to the history.
//
// Apply is deliberately permissive about the current status. An event
// that is nonsensical for the venue's actual state (a fill on a
// cancelled order, say) is still applied mechanically; detecting such
// sequences is the caller's policy, not the entity's. The only failure
// is an event addressed to a different order id.
func (o *Order) Apply(event Event) error {
	base := event.Base()
	if base.OrderID != o.ID {
		return fmt.Errorf("%w: event for %s applied to %s", ErrEventOrderMismatch, base.OrderID, o.ID)
	}

	switch e := event.(type) {
	case OrderSubmitted:
		o.status = StatusSubmitted
	case OrderAccepted:
		o.status = StatusAccepted
	case OrderRejected:
		o.status = StatusRejected
	case OrderWorking:
		o.brokerOrderID = e.BrokerOrderID
		if o.Type.IsPriced() {
			p := e.Price
			o.price = &p
		}
		o.status = StatusWorking
	case OrderModified:
		o.brokerOrderID = e.BrokerOrderID
		p := e.ModifiedPrice
		o.price = &p
		o.status = StatusWorking
	case OrderExpired:
		o.status = StatusExpired
	case OrderCancelled:
		o.status = StatusCancelled
	case OrderCancelReject:
		// Records the venue's response in the history only; the
		// order's status is unchanged by a refused cancel.
	case OrderPartiallyFilled:
		o.updateFill(e.FilledQuantity, e.AveragePrice)
	case OrderFilled:
		o.updateFill(e.FilledQuantity, e.AveragePrice)
	}

	o.events = append(o.events, event)
	return nil
}

// updateFill accumulates an execution into the fill metrics and
// classifies the resulting status against the order quantity.
func (o *Order) updateFill(filledQuantity int64, averagePrice Price) {
	o.filledQuantity += filledQuantity
	avg := averagePrice
	o.averagePrice = &avg
	o.updateSlippage()

	switch {
	case o.filledQuantity < o.Quantity:
		o.status = StatusPartiallyFilled
	case o.filledQuantity == o.Quantity:
		o.status = StatusFilled
	default:
		o.status = StatusOverFilled
	}
}

// updateSlippage recomputes the signed difference between the realized
// average fill price and the order's reference price. Positive
// slippage is adverse on either side: BUY slippage is average minus
// reference, SELL slippage is reference minus average. Market orders
// carry no reference price and keep zero slippage.
func (o *Order) updateSlippage() {
	if o.price == nil || o.averagePrice == nil {
		return
	}
	if o.Side == SideBuy {
		o.slippage = o.averagePrice.Sub(*o.price)
	} else {
		o.slippage = o.price.Sub(*o.averagePrice)
	}
}

// Status returns the order's current lifecycle status.
func (o *Order) Status() OrderStatus {
	return o.status
}

// IsComplete reports whether the order reached a terminal status.
func (o *Order) IsComplete() bool {
	return o.status.IsComplete()
}

// Price returns the order's reference price, or nil for market orders.
func (o *Order) Price() *Price {
	return o.price
}

// BrokerOrderID returns the broker-assigned id reported by the latest
// Working or Modified event, or "" before one arrives.
func (o *Order) BrokerOrderID() OrderID {
	return o.brokerOrderID
}

// FilledQuantity returns the cumulative filled quantity.
func (o *Order) FilledQuantity() int64 {
	return o.filledQuantity
}

// AveragePrice returns the average fill price reported by the latest
// fill event, or nil before any fill.
func (o *Order) AveragePrice() *Price {
	return o.averagePrice
}

// Slippage returns the signed slippage. Zero until a priced order has
// been filled; always zero for market orders.
func (o *Order) Slippage() decimal.Decimal {
	return o.slippage
}

// EventCount returns the number of events applied to the order.
func (o *Order) EventCount() int {
	return len(o.events)
}

// LastEvent returns the most recently applied event, or nil if none.
func (o *Order) LastEvent() Event {
	if len(o.events) == 0 {
		return nil
	}
	return o.events[len(o.events)-1]
}

// Events returns a copy of the applied event history in order.
func (o *Order) Events() []Event {
	out := make([]Event, len(o.events))
	copy(out, o.events)
	return out
}

// OrderSnapshot is a point-in-time copy of an order's read surface.
// A snapshot is a plain value: once taken it is unaffected by events
// applied afterwards, so it can safely leave the synchronization
// boundary that guards the live order.
type OrderSnapshot struct {
	Symbol         Symbol
	ID             OrderID
	Side           OrderSide
	Type           OrderType
	Quantity       int64
	Timestamp      time.Time
	Label          *Label
	TimeInForce    TimeInForce
	ExpireTime     *time.Time
	Price          *Price
	BrokerOrderID  OrderID
	Status         OrderStatus
	IsComplete     bool
	FilledQuantity int64
	AveragePrice   *Price
	Slippage       decimal.Decimal
	EventCount     int
}

// Snapshot copies the order's current read surface. The caller must
// hold whatever lock serializes Apply while taking it.
func (o *Order) Snapshot() OrderSnapshot {
	s := OrderSnapshot{
		Symbol:         o.Symbol,
		ID:             o.ID,
		Side:           o.Side,
		Type:           o.Type,
		Quantity:       o.Quantity,
		Timestamp:      o.Timestamp,
		Label:          o.Label,
		TimeInForce:    o.TimeInForce,
		ExpireTime:     o.ExpireTime,
		BrokerOrderID:  o.brokerOrderID,
		Status:         o.status,
		IsComplete:     o.status.IsComplete(),
		FilledQuantity: o.filledQuantity,
		Slippage:       o.slippage,
		EventCount:     len(o.events),
	}
	if o.price != nil {
		p := *o.price
		s.Price = &p
	}
	if o.averagePrice != nil {
		p := *o.averagePrice
		s.AveragePrice = &p
	}
	return s
}

// String renders a short human-readable description of the order.
func (o *Order) String() string {
	s := fmt.Sprintf("Order(%s %s %d %s %s %s", o.ID, o.Side, o.Quantity, o.Symbol, o.Type, o.TimeInForce)
	if o.price != nil {
		s += " @ " + o.price.String()
	}
	return s + " " + string(o.status) + ")"
}
