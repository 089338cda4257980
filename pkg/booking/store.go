package booking

import "context"

// Store persists booking records.
//
// CreateFromPayment must be atomic on the payment intent: under
// concurrent or repeated calls carrying the same payment_intent_id,
// exactly one record is created and every other call reports
// ErrDuplicatePaymentIntent. Implementations back this with a unique
// constraint (or equivalent single-writer discipline), never with a
// read-then-write in application code.
type Store interface {
	// CreateFromPayment inserts a booking keyed by its payment intent.
	CreateFromPayment(ctx context.Context, b Booking) (Booking, error)

	// Get returns the booking with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (Booking, error)

	// GetByPaymentIntent returns the booking for the payment intent or ErrNotFound.
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (Booking, error)

	// UpdateStatus applies a state-machine-guarded status change and
	// returns the updated record. Rejected transitions return an
	// InvalidTransitionError and leave the record unchanged.
	UpdateStatus(ctx context.Context, id string, to Status) (Booking, error)
}
