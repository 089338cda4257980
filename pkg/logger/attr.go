package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// BookingID records the booking identifier under the key "booking_id".
func BookingID(id string) slog.Attr {
	return slog.String("booking_id", id)
}

// PaymentIntentID records the payment intent under the key "payment_intent_id".
func PaymentIntentID(id string) slog.Attr {
	return slog.String("payment_intent_id", id)
}

// NotificationID records the notification identifier under the key "notification_id".
func NotificationID(id string) slog.Attr {
	return slog.String("notification_id", id)
}

// ClientID records the stream subscriber identifier under the key "client_id".
func ClientID(id string) slog.Attr {
	return slog.String("client_id", id)
}

// EventType records the webhook event type under the key "event_type".
func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

// EventID records the provider event identifier under the key "event_id".
func EventID(id string) slog.Attr {
	return slog.String("event_id", id)
}

// Trigger records the automation trigger under the key "trigger".
func Trigger(name string) slog.Attr {
	return slog.String("trigger", name)
}

// Channel records the outbound channel under the key "channel".
func Channel(name string) slog.Attr {
	return slog.String("channel", name)
}

// UserID records the user identifier under the key "user_id".
// If id is empty, it returns an empty Attr.
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
