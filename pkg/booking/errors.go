package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a booking id or payment intent is unknown.
	ErrNotFound = errors.New("booking not found")
	// ErrDuplicatePaymentIntent signals a booking already exists for the
	// payment intent. Webhook handling treats it as an idempotent no-op.
	ErrDuplicatePaymentIntent = errors.New("booking already exists for payment intent")
	// ErrMissingPaymentIntent is returned when creating a booking without its natural key.
	ErrMissingPaymentIntent = errors.New("payment intent id is required")
)

// InvalidTransitionError indicates a status change the state machine does
// not permit. The record is left unchanged.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking status transition from %q to %q", e.From, e.To)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}
