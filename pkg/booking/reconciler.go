package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/brightnest/bookingcore/pkg/logger"
	"github.com/brightnest/bookingcore/pkg/notification"
	"github.com/brightnest/bookingcore/pkg/webhookevent"
)

// Automation fires configured outbound-message rules for a business
// trigger. Satisfied by dispatch.Dispatcher.
type Automation interface {
	Fire(ctx context.Context, trigger string, data map[string]string) error
}

// NoOpAutomation ignores triggers. Used when no dispatcher is wired.
type NoOpAutomation struct{}

func (NoOpAutomation) Fire(context.Context, string, map[string]string) error { return nil }

// Reconciler folds verified webhook events into booking state and emits
// the downstream notifications and automation triggers.
type Reconciler struct {
	secret     string
	bookings   Store
	feed       *notification.Feed
	automation Automation
	log        *slog.Logger
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithAutomation wires the automation dispatcher fired on booking events.
func WithAutomation(a Automation) ReconcilerOption {
	return func(r *Reconciler) {
		if a != nil {
			r.automation = a
		}
	}
}

// WithReconcilerLogger sets the logger for the Reconciler.
func WithReconcilerLogger(log *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		if log != nil {
			r.log = log
		}
	}
}

// NewReconciler creates a reconciler verifying deliveries against secret.
func NewReconciler(secret string, bookings Store, feed *notification.Feed, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		secret:     secret,
		bookings:   bookings,
		feed:       feed,
		automation: NoOpAutomation{},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HandleEvent verifies and processes one webhook delivery.
//
// Signature and decoding failures are returned to the caller so the
// provider sees a 4xx and stops retrying a request that can never
// succeed. Failures while handling a recognized event type are NOT
// returned: the provider would retry indefinitely, so they are logged,
// surfaced as an alert notification for an operator, and swallowed.
// Unrecognized event types are accepted and ignored.
func (r *Reconciler) HandleEvent(ctx context.Context, body []byte, headers webhookevent.SignatureHeaders) error {
	ev, err := webhookevent.VerifyAndParse(r.secret, body, headers)
	if err != nil {
		return err
	}

	if err := r.process(ctx, ev); err != nil {
		r.log.LogAttrs(ctx, slog.LevelError, "webhook event processing failed",
			logger.EventID(ev.ID),
			logger.EventType(string(ev.Type)),
			logger.Error(err),
		)
		r.alertOperator(ctx, ev, err)
	}
	return nil
}

func (r *Reconciler) process(ctx context.Context, ev webhookevent.Event) error {
	switch ev.Type {
	case webhookevent.TypePaymentSucceeded:
		return r.handlePaymentSucceeded(ctx, ev)

	case webhookevent.TypePaymentFailed:
		// No booking exists yet for a failed payment; nothing to roll back.
		r.log.LogAttrs(ctx, slog.LevelInfo, "payment failed",
			logger.EventID(ev.ID),
			logger.PaymentIntentID(ev.Data.PaymentIntentID),
			slog.String("reason", ev.Data.FailureReason),
		)
		return nil

	case webhookevent.TypePaymentCanceled:
		r.log.LogAttrs(ctx, slog.LevelInfo, "payment canceled",
			logger.EventID(ev.ID),
			logger.PaymentIntentID(ev.Data.PaymentIntentID),
		)
		return nil

	case webhookevent.TypeDisputeCreated:
		return r.handleDisputeCreated(ctx, ev)

	default:
		// Unknown types must be accepted: rejecting them would make the
		// provider retry a delivery this service will never understand.
		r.log.LogAttrs(ctx, slog.LevelDebug, "ignoring unrecognized webhook event type",
			logger.EventID(ev.ID),
			logger.EventType(string(ev.Type)),
		)
		return nil
	}
}

func (r *Reconciler) handlePaymentSucceeded(ctx context.Context, ev webhookevent.Event) error {
	b := Booking{
		Status:          StatusConfirmed,
		PaymentIntentID: ev.Data.PaymentIntentID,
		Amount:          ev.Data.Amount,
		Currency:        ev.Data.Currency,
	}
	if p := ev.Data.Booking; p != nil {
		b.ServiceType = p.ServiceType
		b.ScheduledDate = p.ScheduledDate
		b.CustomerName = p.CustomerName
		b.CustomerEmail = p.CustomerEmail
		b.CustomerPhone = p.CustomerPhone
		b.Address = p.Address
	}

	created, err := r.bookings.CreateFromPayment(ctx, b)
	if errors.Is(err, ErrDuplicatePaymentIntent) {
		// Redelivery, or a related event with a different id but the same
		// intent. The first delivery already did the work.
		r.log.LogAttrs(ctx, slog.LevelInfo, "duplicate payment confirmation ignored",
			logger.EventID(ev.ID),
			logger.PaymentIntentID(ev.Data.PaymentIntentID),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	r.log.LogAttrs(ctx, slog.LevelInfo, "booking confirmed from payment",
		logger.BookingID(created.ID),
		logger.PaymentIntentID(created.PaymentIntentID),
	)

	data := map[string]string{
		"booking_id":     created.ID,
		"service_type":   created.ServiceType,
		"scheduled_date": created.ScheduledDate,
		"customer_name":  created.CustomerName,
		"customer_email": created.CustomerEmail,
		"customer_phone": created.CustomerPhone,
		"address":        created.Address,
	}
	for _, trigger := range []string{"booking_created", "payment_received"} {
		if err := r.automation.Fire(ctx, trigger, data); err != nil {
			// Message dispatch failing must not undo the booking; log and
			// keep going so the notification below still lands.
			r.log.LogAttrs(ctx, slog.LevelWarn, "automation trigger failed",
				logger.BookingID(created.ID),
				logger.Trigger(trigger),
				logger.Error(err),
			)
		}
	}

	_, err = r.feed.Publish(ctx, notification.Notification{
		Type:     notification.TypePayment,
		Priority: notification.PriorityNormal,
		Title:    "Payment received",
		Message:  fmt.Sprintf("Booking confirmed for %s (%s)", created.CustomerName, created.ServiceType),
		Data: map[string]any{
			"bookingId":       created.ID,
			"paymentIntentId": created.PaymentIntentID,
		},
	})
	if err != nil {
		return fmt.Errorf("publish booking notification: %w", err)
	}
	return nil
}

func (r *Reconciler) handleDisputeCreated(ctx context.Context, ev webhookevent.Event) error {
	_, err := r.feed.Publish(ctx, notification.Notification{
		Type:     notification.TypeAlert,
		Priority: notification.PriorityUrgent,
		Title:    "Payment dispute opened",
		Message:  fmt.Sprintf("A dispute was opened for payment %s; manual review required", ev.Data.PaymentIntentID),
		Data: map[string]any{
			"paymentIntentId": ev.Data.PaymentIntentID,
			"eventId":         ev.ID,
		},
	})
	if err != nil {
		return fmt.Errorf("publish dispute notification: %w", err)
	}
	return nil
}

// alertOperator surfaces a swallowed processing failure on the feed so a
// human can intervene; the provider has already been told 2xx.
func (r *Reconciler) alertOperator(ctx context.Context, ev webhookevent.Event, procErr error) {
	if _, err := r.feed.Publish(ctx, notification.Notification{
		Type:     notification.TypeAlert,
		Priority: notification.PriorityUrgent,
		Title:    "Webhook processing failed",
		Message:  fmt.Sprintf("Event %s (%s) failed: %v", ev.ID, ev.Type, procErr),
		Data: map[string]any{
			"eventId":   ev.ID,
			"eventType": string(ev.Type),
		},
	}); err != nil {
		r.log.LogAttrs(ctx, slog.LevelError, "failed to publish operator alert",
			logger.EventID(ev.ID),
			logger.Error(err),
		)
	}
}
