// Package logger builds configured slog.Logger instances for the booking
// core and provides typed attribute helpers so log fields stay consistent
// across the webhook, notification, and dispatch paths.
package logger
