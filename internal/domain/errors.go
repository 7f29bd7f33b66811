package domain

import (
	"errors"
	"strings"
)

var (
	// ErrEventUnavailable is the single outcome for a reservation miss. The
	// conditional update cannot tell a missing event from one with too few
	// tickets, and callers are deliberately not told which it was.
	ErrEventUnavailable = errors.New("event not found or not enough tickets available")
	ErrEventNotFound    = errors.New("event not found")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
)

// ValidationError aggregates per-field input failures. It is a routine
// business outcome, reported before any storage call is attempted.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// AsValidation unwraps err into a ValidationError, if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
