package webhookevent

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type identifies a provider event type. Unrecognized types are preserved
// verbatim; the reconciler decides whether to act on them.
type Type string

const (
	TypePaymentSucceeded Type = "payment_intent.succeeded"
	TypePaymentFailed    Type = "payment_intent.payment_failed"
	TypePaymentCanceled  Type = "payment_intent.canceled"
	TypeDisputeCreated   Type = "charge.dispute.created"
)

// Event is a verified, decoded webhook delivery.
type Event struct {
	ID   string  `json:"id"`
	Type Type    `json:"type"`
	Data Payload `json:"data"`
}

// Payload carries the payment intent and the booking details the site
// embeds in the provider's checkout metadata.
type Payload struct {
	PaymentIntentID string          `json:"payment_intent_id"`
	Amount          int64           `json:"amount"`
	Currency        string          `json:"currency"`
	FailureReason   string          `json:"failure_reason,omitempty"`
	Booking         *BookingPayload `json:"booking,omitempty"`
}

// BookingPayload holds the customer and service fields embedded in
// checkout metadata, used to materialize a booking on payment success.
type BookingPayload struct {
	ServiceType   string `json:"service_type"`
	ScheduledDate string `json:"scheduled_date"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	Address       string `json:"address,omitempty"`
}

// Parse decodes a raw webhook body into an Event.
// It does not validate the signature; see VerifyAndParse.
func Parse(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, errors.Join(ErrMalformedEvent, err)
	}
	if ev.ID == "" || ev.Type == "" {
		return Event{}, fmt.Errorf("%w: id and type are required", ErrMalformedEvent)
	}
	return ev, nil
}

// VerifyAndParse verifies the delivery signature and decodes the event.
// No event is returned unless the signature check passes.
func VerifyAndParse(secret string, body []byte, headers SignatureHeaders) (Event, error) {
	if err := VerifySignature(secret, body, headers, DefaultMaxAge); err != nil {
		return Event{}, err
	}
	return Parse(body)
}
