package domain

import (
	"fmt"
	"time"
)

// OrderFactory is the single authority for producing valid orders and
// atomic orders with collision-free ids within its own lifetime. Each
// factory owns a strictly increasing sequence counter; the counter is
// never reset and never visible outside id generation.
//
// A factory is not safe for concurrent use; give each concurrent
// caller its own instance or serialize access externally.
type OrderFactory struct {
	traderTag   string
	strategyTag string
	clock       Clock
	counter     int64
}

// NewOrderFactory creates a factory stamped with the given trader and
// strategy tags, reading time from the injected clock.
func NewOrderFactory(traderTag, strategyTag string, clock Clock) *OrderFactory {
	return &OrderFactory{
		traderTag:   traderTag,
		strategyTag: strategyTag,
		clock:       clock,
	}
}

// generateOrderID produces the next order id:
// {YYYYMMDD}-{HHMMSS}-{trader}-{strategy}-{code}-{venue}-{sequence}.
// Each call consumes one sequence value.
func (f *OrderFactory) generateOrderID(symbol Symbol) OrderID {
	f.counter++
	now := f.clock.Now()
	return OrderID(fmt.Sprintf("%s-%s-%s-%s-%s-%s-%d",
		now.Format("20060102"),
		now.Format("150405"),
		f.traderTag,
		f.strategyTag,
		symbol.Code,
		symbol.Venue,
		f.counter,
	))
}

// OrderOptions carries the optional fields accepted by the priced
// constructors. TimeInForce defaults to DAY when left empty.
type OrderOptions struct {
	Label       *Label
	TimeInForce TimeInForce
	ExpireTime  *time.Time
}

// Market creates a MARKET order with DAY time-in-force.
func (f *OrderFactory) Market(symbol Symbol, side OrderSide, quantity int64, label *Label) (*Order, error) {
	return NewOrder(symbol, f.generateOrderID(symbol), side, OrderTypeMarket, quantity, f.clock.Now(), OrderParams{
		Label: label,
	})
}

// Limit creates a LIMIT order at the given price.
func (f *OrderFactory) Limit(symbol Symbol, side OrderSide, quantity int64, price Price, opts *OrderOptions) (*Order, error) {
	return f.priced(symbol, side, OrderTypeLimit, quantity, price, opts)
}

// StopMarket creates a STOP_MARKET order triggered at the given price.
func (f *OrderFactory) StopMarket(symbol Symbol, side OrderSide, quantity int64, price Price, opts *OrderOptions) (*Order, error) {
	return f.priced(symbol, side, OrderTypeStopMarket, quantity, price, opts)
}

// StopLimit creates a STOP_LIMIT order at the given price.
func (f *OrderFactory) StopLimit(symbol Symbol, side OrderSide, quantity int64, price Price, opts *OrderOptions) (*Order, error) {
	return f.priced(symbol, side, OrderTypeStopLimit, quantity, price, opts)
}

// MarketIfTouched creates an MIT order triggered at the given price.
func (f *OrderFactory) MarketIfTouched(symbol Symbol, side OrderSide, quantity int64, price Price, opts *OrderOptions) (*Order, error) {
	return f.priced(symbol, side, OrderTypeMIT, quantity, price, opts)
}

// FillOrKill creates a MARKET order with FOC time-in-force.
func (f *OrderFactory) FillOrKill(symbol Symbol, side OrderSide, quantity int64, label *Label) (*Order, error) {
	return NewOrder(symbol, f.generateOrderID(symbol), side, OrderTypeMarket, quantity, f.clock.Now(), OrderParams{
		Label:       label,
		TimeInForce: TIFFOC,
	})
}

// ImmediateOrCancel creates a MARKET order with IOC time-in-force.
func (f *OrderFactory) ImmediateOrCancel(symbol Symbol, side OrderSide, quantity int64, label *Label) (*Order, error) {
	return NewOrder(symbol, f.generateOrderID(symbol), side, OrderTypeMarket, quantity, f.clock.Now(), OrderParams{
		Label:       label,
		TimeInForce: TIFIOC,
	})
}

// AtomicMarket creates a bracket: a MARKET entry, a GTC STOP_MARKET
// stop loss on the opposite side, and, when profitTarget is non-nil, a
// GTC LIMIT target on the opposite side. All legs carry the entry's
// quantity and consume one sequence value each. When a label is given
// the legs are labelled label_E, label_SL and label_PT.
func (f *OrderFactory) AtomicMarket(
	symbol Symbol,
	side OrderSide,
	quantity int64,
	stopLoss Price,
	profitTarget *Price,
	label *Label,
) (*AtomicOrder, error) {
	entryLabel, stopLabel, targetLabel := bracketLabels(label)

	entry, err := f.Market(symbol, side, quantity, entryLabel)
	if err != nil {
		return nil, err
	}

	stop, err := f.StopMarket(symbol, side.Opposite(), quantity, stopLoss, &OrderOptions{
		Label:       stopLabel,
		TimeInForce: TIFGTC,
	})
	if err != nil {
		return nil, err
	}

	var target *Order
	if profitTarget != nil {
		target, err = f.Limit(symbol, side.Opposite(), quantity, *profitTarget, &OrderOptions{
			Label:       targetLabel,
			TimeInForce: TIFGTC,
		})
		if err != nil {
			return nil, err
		}
	}

	return NewAtomicOrder(entry, stop, target), nil
}

func (f *OrderFactory) priced(symbol Symbol, side OrderSide, orderType OrderType, quantity int64, price Price, opts *OrderOptions) (*Order, error) {
	if opts == nil {
		opts = &OrderOptions{}
	}
	p := price
	return NewOrder(symbol, f.generateOrderID(symbol), side, orderType, quantity, f.clock.Now(), OrderParams{
		Label:       opts.Label,
		Price:       &p,
		TimeInForce: opts.TimeInForce,
		ExpireTime:  opts.ExpireTime,
	})
}

// bracketLabels derives the _E/_SL/_PT leg labels, or all nil when no
// bracket label was supplied.
func bracketLabels(label *Label) (entry, stop, target *Label) {
	if label == nil {
		return nil, nil, nil
	}
	e := *label + "_E"
	s := *label + "_SL"
	t := *label + "_PT"
	return &e, &s, &t
}
