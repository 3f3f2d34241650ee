package domain

import (
	"fmt"
	"regexp"
)

// Venue identifies the execution venue a symbol trades on.
type Venue string

const (
	VenueFXCM      Venue = "FXCM"
	VenueDukascopy Venue = "DUKASCOPY"
	VenueSimulated Venue = "SIMULATED"
)

// knownVenues lists all valid venue values for validation.
var knownVenues = map[Venue]bool{
	VenueFXCM:      true,
	VenueDukascopy: true,
	VenueSimulated: true,
}

var symbolCodeRegex = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// Symbol is a tradeable instrument code paired with its venue.
// Symbols compare by value.
type Symbol struct {
	Code  string
	Venue Venue
}

// NewSymbol validates the code and venue and returns a Symbol.
func NewSymbol(code string, venue Venue) (Symbol, error) {
	if !symbolCodeRegex.MatchString(code) {
		return Symbol{}, &ValidationError{
			Message: "symbol code must match ^[A-Z0-9]{1,10}$",
		}
	}
	if !knownVenues[venue] {
		return Symbol{}, &ValidationError{
			Message: fmt.Sprintf("unknown venue: %s", venue),
		}
	}
	return Symbol{Code: code, Venue: venue}, nil
}

// ParseVenue validates a venue string.
func ParseVenue(s string) (Venue, error) {
	v := Venue(s)
	if !knownVenues[v] {
		return "", &ValidationError{
			Message: fmt.Sprintf("unknown venue: %s. Must be one of: FXCM, DUKASCOPY, SIMULATED", s),
		}
	}
	return v, nil
}

// String renders the symbol as CODE.VENUE.
func (s Symbol) String() string {
	return s.Code + "." + string(s.Venue)
}
