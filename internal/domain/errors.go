package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrOrderNotFound      = errors.New("order_not_found")
	ErrBracketNotFound    = errors.New("bracket_not_found")
	ErrEventOrderMismatch = errors.New("event_order_mismatch")
)

// ValidationError represents an invalid-argument failure raised at
// construction or request-validation time.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
