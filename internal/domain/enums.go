package domain

// OrderSide indicates whether an order buys or sells.
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// Opposite returns the other side. Used to derive bracket leg sides.
func (s OrderSide) Opposite() OrderSide {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderType distinguishes the execution instruction of an order.
type OrderType string

const (
	OrderTypeMarket     OrderType = "MARKET"
	OrderTypeLimit      OrderType = "LIMIT"
	OrderTypeStopMarket OrderType = "STOP_MARKET"
	OrderTypeStopLimit  OrderType = "STOP_LIMIT"
	OrderTypeMIT        OrderType = "MIT"
)

// IsPriced reports whether the order type requires a reference price.
// Every type except MARKET is priced.
func (t OrderType) IsPriced() bool {
	return t != OrderTypeMarket
}

// TimeInForce governs how long an order remains eligible for execution.
type TimeInForce string

const (
	TIFDay TimeInForce = "DAY"
	TIFGTC TimeInForce = "GTC"
	TIFGTD TimeInForce = "GTD"
	TIFIOC TimeInForce = "IOC"
	TIFFOC TimeInForce = "FOC"
)

// OrderStatus represents the lifecycle state of an order. Status is
// always a pure function of the order's applied event history folded
// from StatusInitialized.
type OrderStatus string

const (
	StatusInitialized     OrderStatus = "INITIALIZED"
	StatusSubmitted       OrderStatus = "SUBMITTED"
	StatusAccepted        OrderStatus = "ACCEPTED"
	StatusRejected        OrderStatus = "REJECTED"
	StatusWorking         OrderStatus = "WORKING"
	StatusCancelled       OrderStatus = "CANCELLED"
	StatusExpired         OrderStatus = "EXPIRED"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusOverFilled      OrderStatus = "OVER_FILLED"
)

// IsComplete reports whether the status is terminal. True exactly for
// REJECTED, EXPIRED, CANCELLED and FILLED; OVER_FILLED is not terminal
// because the position still needs reconciling.
func (s OrderStatus) IsComplete() bool {
	switch s {
	case StatusRejected, StatusExpired, StatusCancelled, StatusFilled:
		return true
	default:
		return false
	}
}
