package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewPrice_ValidLiteral(t *testing.T) {
	p, err := NewPrice("1.00000")
	if err != nil {
		t.Fatalf("NewPrice(1.00000): %v", err)
	}
	if p.String() != "1.00000" {
		t.Errorf("String() = %s, want 1.00000 (literal precision preserved)", p)
	}
}

func TestNewPrice_RejectsNonPositive(t *testing.T) {
	for _, s := range []string{"0", "0.00000", "-1.5"} {
		if _, err := NewPrice(s); err == nil {
			t.Errorf("NewPrice(%s) should fail", s)
		}
	}
}

func TestNewPrice_RejectsNonDecimal(t *testing.T) {
	for _, s := range []string{"", "abc", "1.0.0"} {
		if _, err := NewPrice(s); err == nil {
			t.Errorf("NewPrice(%q) should fail", s)
		}
	}
}

func TestPrice_StringPreservesLiteralScale(t *testing.T) {
	literals := []string{"1.00000", "1.0", "1.50", "0.99999", "10", "1.00001"}
	for _, s := range literals {
		if got := MustPrice(s).String(); got != s {
			t.Errorf("String() = %s, want %s", got, s)
		}
	}
}

func TestPrice_EqualIgnoresTrailingZeros(t *testing.T) {
	a := MustPrice("1.00000")
	b := MustPrice("1.0")
	if !a.Equal(b) {
		t.Error("1.00000 should equal 1.0")
	}
	c := MustPrice("1.00001")
	if a.Equal(c) {
		t.Error("1.00000 should not equal 1.00001")
	}
}

func TestPrice_SubIsExact(t *testing.T) {
	got := MustPrice("1.00001").Sub(MustPrice("1.00000"))
	if want := decimal.RequireFromString("0.00001"); !got.Equal(want) {
		t.Errorf("Sub = %s, want %s", got, want)
	}

	got = MustPrice("0.99999").Sub(MustPrice("1.00000"))
	if want := decimal.RequireFromString("-0.00001"); !got.Equal(want) {
		t.Errorf("Sub = %s, want %s", got, want)
	}
}

func TestPrice_ZeroValueIsNotPositive(t *testing.T) {
	var p Price
	if p.IsPositive() {
		t.Error("zero value Price should not be positive")
	}
}
