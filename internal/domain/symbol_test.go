package domain

import "testing"

func TestNewSymbol_Valid(t *testing.T) {
	s, err := NewSymbol("AUDUSD", VenueFXCM)
	if err != nil {
		t.Fatalf("NewSymbol: %v", err)
	}
	if s.String() != "AUDUSD.FXCM" {
		t.Errorf("String() = %s, want AUDUSD.FXCM", s)
	}
}

func TestNewSymbol_Invalid(t *testing.T) {
	if _, err := NewSymbol("audusd", VenueFXCM); err == nil {
		t.Error("lowercase code should fail")
	}
	if _, err := NewSymbol("", VenueFXCM); err == nil {
		t.Error("empty code should fail")
	}
	if _, err := NewSymbol("AUDUSD", "NASDAQ"); err == nil {
		t.Error("unknown venue should fail")
	}
}

func TestSymbol_EqualityByValue(t *testing.T) {
	a := Symbol{Code: "GBPUSD", Venue: VenueFXCM}
	b := Symbol{Code: "GBPUSD", Venue: VenueFXCM}
	if a != b {
		t.Error("symbols with equal code and venue should compare equal")
	}
	c := Symbol{Code: "GBPUSD", Venue: VenueDukascopy}
	if a == c {
		t.Error("symbols on different venues should not compare equal")
	}
}

func TestParseVenue(t *testing.T) {
	if _, err := ParseVenue("FXCM"); err != nil {
		t.Errorf("ParseVenue(FXCM): %v", err)
	}
	if _, err := ParseVenue("NYSE"); err == nil {
		t.Error("ParseVenue(NYSE) should fail")
	}
}

func TestOrderStatus_IsComplete(t *testing.T) {
	complete := []OrderStatus{StatusRejected, StatusExpired, StatusCancelled, StatusFilled}
	for _, s := range complete {
		if !s.IsComplete() {
			t.Errorf("%s should be complete", s)
		}
	}
	incomplete := []OrderStatus{
		StatusInitialized, StatusSubmitted, StatusAccepted,
		StatusWorking, StatusPartiallyFilled, StatusOverFilled,
	}
	for _, s := range incomplete {
		if s.IsComplete() {
			t.Errorf("%s should not be complete", s)
		}
	}
}

func TestOrderSide_Opposite(t *testing.T) {
	if SideBuy.Opposite() != SideSell {
		t.Error("opposite of BUY should be SELL")
	}
	if SideSell.Opposite() != SideBuy {
		t.Error("opposite of SELL should be BUY")
	}
}

func TestOrderType_IsPriced(t *testing.T) {
	if OrderTypeMarket.IsPriced() {
		t.Error("MARKET should not be priced")
	}
	for _, typ := range []OrderType{OrderTypeLimit, OrderTypeStopMarket, OrderTypeStopLimit, OrderTypeMIT} {
		if !typ.IsPriced() {
			t.Errorf("%s should be priced", typ)
		}
	}
}
