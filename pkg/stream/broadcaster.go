package stream

import (
	"context"
	"sync"
	"time"

	"github.com/brightnest/bookingcore/pkg/notification"
)

// Default tuning. WriteTimeout bounds how long a broadcast waits on one
// subscriber before evicting it; HeartbeatInterval is how often the
// transport should emit keep-alive frames to detect half-open sockets.
const (
	DefaultBufferSize        = 16
	DefaultWriteTimeout      = 2 * time.Second
	DefaultHeartbeatInterval = 30 * time.Second
)

// Broadcaster delivers notifications to every currently-registered
// subscriber.
type Broadcaster interface {
	// Subscribe registers a live connection under the given client id and
	// returns the handle the transport reads frames from. The subscription
	// is cleaned up when ctx is cancelled or the handle is closed.
	Subscribe(ctx context.Context, clientID string) (*Subscriber, error)

	// Broadcast sends the notification to all active subscribers,
	// best-effort. Slow or dead subscribers are evicted, not waited on.
	Broadcast(ctx context.Context, n notification.Notification) error

	// Unsubscribe removes and closes the subscription for the client id.
	Unsubscribe(clientID string)

	// SubscriberCount returns the number of active subscriptions.
	SubscriberCount() int

	// Close shuts down the broadcaster and closes all subscribers.
	Close() error
}

// Subscriber is the per-connection handle returned by Subscribe.
//
// The frame channel is never closed; readers must select on Done to
// observe the end of the subscription. This keeps concurrent broadcast
// writes safe without coordinating channel closure.
type Subscriber struct {
	id        string
	ch        chan notification.Notification
	done      chan struct{}
	closeOnce sync.Once
	onClose   func()
}

func newSubscriber(id string, bufferSize int, onClose func()) *Subscriber {
	return &Subscriber{
		id:      id,
		ch:      make(chan notification.Notification, bufferSize),
		done:    make(chan struct{}),
		onClose: onClose,
	}
}

// ID returns the client id this subscription was registered under.
func (s *Subscriber) ID() string { return s.id }

// Receive returns the channel broadcast frames arrive on.
func (s *Subscriber) Receive() <-chan notification.Notification { return s.ch }

// Done is closed when the subscription ends.
func (s *Subscriber) Done() <-chan struct{} { return s.done }

// Close ends the subscription. Idempotent.
func (s *Subscriber) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.onClose != nil {
			s.onClose()
		}
	})
	return nil
}
