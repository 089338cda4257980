// Package booking owns booking records, their status state machine, and
// the reconciler that folds verified payment-provider webhook events into
// booking state.
//
// Idempotency is anchored on the payment intent, not the provider event
// id: related deliveries may carry different event ids but the same
// payment_intent_id, and at most one booking may exist per intent. The
// store enforces that uniqueness atomically, which is what makes
// at-least-once webhook delivery safe.
package booking
