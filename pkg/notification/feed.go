package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Deliverer pushes a stored notification to live subscribers.
// Satisfied by stream.Broadcaster implementations.
type Deliverer interface {
	Broadcast(ctx context.Context, n Notification) error
}

// NoOpDeliverer discards deliveries. Used when no live feed is wired.
type NoOpDeliverer struct{}

func (NoOpDeliverer) Broadcast(context.Context, Notification) error { return nil }

// Feed couples the store with real-time delivery: every published
// notification is persisted first, then pushed best-effort. Push
// failures are logged but never fail the publish, so the record is
// always retrievable even when no subscriber saw it live.
type Feed struct {
	store     *Store
	deliverer Deliverer
	log       *slog.Logger

	// mu serializes the create+broadcast pair so live delivery order
	// matches creation order even under concurrent publishes.
	mu sync.Mutex
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithFeedLogger sets the logger for the Feed.
func WithFeedLogger(log *slog.Logger) FeedOption {
	return func(f *Feed) {
		if log != nil {
			f.log = log
		}
	}
}

// NewFeed creates a notification feed over the given store.
func NewFeed(store *Store, deliverer Deliverer, opts ...FeedOption) *Feed {
	if deliverer == nil {
		deliverer = NoOpDeliverer{}
	}
	f := &Feed{
		store:     store,
		deliverer: deliverer,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Publish stores the notification and pushes it to live subscribers.
// The returned record carries the assigned id and creation time.
// Publishes are serialized: subscribers see frames in creation order.
func (f *Feed) Publish(ctx context.Context, n Notification) (Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	created, err := f.store.Create(ctx, n)
	if err != nil {
		return Notification{}, fmt.Errorf("failed to store notification: %w", err)
	}

	if err := f.deliverer.Broadcast(ctx, created); err != nil {
		f.log.LogAttrs(ctx, slog.LevelWarn, "notification stored but live delivery failed",
			slog.String("notification_id", created.ID),
			slog.Any("error", err),
		)
	}

	return created, nil
}

// Store exposes the underlying store for read/mutate paths.
func (f *Feed) Store() *Store { return f.store }
