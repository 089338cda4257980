package booking

import "time"

// Status is a booking's lifecycle state.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusConfirmed   Status = "confirmed"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
)

// statusTransitions is the full forward-transition table. States absent
// from the map are terminal.
var statusTransitions = map[Status][]Status{
	StatusScheduled:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusRescheduled},
	StatusInProgress: {StatusCompleted, StatusCancelled, StatusRescheduled},
}

// CanTransition reports whether the state machine permits from → to.
func CanTransition(from, to Status) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusRescheduled:
		return true
	}
	return false
}

// Booking is a customer's service appointment. PaymentIntentID is the
// natural key: at most one booking exists per intent.
type Booking struct {
	ID              string    `json:"id"`
	Status          Status    `json:"status"`
	PaymentIntentID string    `json:"payment_intent_id,omitempty"`
	ServiceType     string    `json:"service_type"`
	ScheduledDate   string    `json:"scheduled_date"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone,omitempty"`
	Address         string    `json:"address,omitempty"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Transition validates and applies a status change on the record.
// On rejection the record is unchanged and an InvalidTransitionError is
// returned.
func (b *Booking) Transition(to Status, at time.Time) error {
	if !CanTransition(b.Status, to) {
		return &InvalidTransitionError{From: b.Status, To: to}
	}
	b.Status = to
	b.UpdatedAt = at
	return nil
}
