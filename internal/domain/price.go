package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Price is an exact fixed-precision decimal price. It must be built
// from a decimal literal string so that equality and subtraction are
// exact; binary floating point never enters the representation. A
// Price used on an order is always strictly positive.
type Price struct {
	value decimal.Decimal
}

// NewPrice parses a decimal literal such as "1.00000" into a Price.
// Non-numeric or non-positive input is a validation failure.
func NewPrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, &ValidationError{
			Message: fmt.Sprintf("price must be a decimal literal, got %q", s),
		}
	}
	if !d.IsPositive() {
		return Price{}, &ValidationError{
			Message: fmt.Sprintf("price must be greater than 0, got %q", s),
		}
	}
	return Price{value: d}, nil
}

// MustPrice is NewPrice that panics on invalid input. For literals.
func MustPrice(s string) Price {
	p, err := NewPrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Decimal returns the underlying decimal value.
func (p Price) Decimal() decimal.Decimal {
	return p.value
}

// Equal reports exact value equality, independent of trailing zeros.
func (p Price) Equal(other Price) bool {
	return p.value.Equal(other.value)
}

// Sub returns p minus other as a signed decimal. Used for slippage.
func (p Price) Sub(other Price) decimal.Decimal {
	return p.value.Sub(other.value)
}

// IsPositive reports whether the price is strictly greater than zero.
// The zero value of Price is not positive.
func (p Price) IsPositive() bool {
	return p.value.IsPositive()
}

// String preserves the precision of the literal the price was parsed
// from, e.g. "1.00000". decimal.String trims trailing zeros, so the
// parsed scale is re-applied explicitly.
func (p Price) String() string {
	if exp := p.value.Exponent(); exp < 0 {
		return p.value.StringFixed(-exp)
	}
	return p.value.String()
}
