package stream

import (
	"context"
	"sync"
	"time"

	"github.com/brightnest/bookingcore/pkg/notification"
)

// MemoryBroadcaster is the in-process Broadcaster implementation.
// All methods are safe for concurrent use. Broadcast order follows call
// order, which within one instance is notification creation order.
type MemoryBroadcaster struct {
	subscribers  map[string]*Subscriber
	bufferSize   int
	writeTimeout time.Duration
	closed       bool
	mu           sync.RWMutex
	cleanupWg    sync.WaitGroup
}

// MemoryOption configures a MemoryBroadcaster.
type MemoryOption func(*MemoryBroadcaster)

// WithBufferSize sets the per-subscriber frame buffer. Minimum of 1 is
// enforced; an unbuffered channel would make every send blocking.
func WithBufferSize(n int) MemoryOption {
	return func(b *MemoryBroadcaster) { b.bufferSize = max(n, 1) }
}

// WithWriteTimeout sets how long Broadcast waits on one subscriber whose
// buffer is full before evicting it.
func WithWriteTimeout(d time.Duration) MemoryOption {
	return func(b *MemoryBroadcaster) {
		if d > 0 {
			b.writeTimeout = d
		}
	}
}

// NewMemoryBroadcaster creates an in-memory broadcaster.
func NewMemoryBroadcaster(opts ...MemoryOption) *MemoryBroadcaster {
	b := &MemoryBroadcaster{
		subscribers:  make(map[string]*Subscriber),
		bufferSize:   DefaultBufferSize,
		writeTimeout: DefaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a new live connection. The subscription is removed
// automatically when ctx is cancelled.
func (b *MemoryBroadcaster) Subscribe(ctx context.Context, clientID string) (*Subscriber, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}
	if _, exists := b.subscribers[clientID]; exists {
		return nil, ErrDuplicateClient
	}

	sub := newSubscriber(clientID, b.bufferSize, func() {
		b.remove(clientID)
	})
	b.subscribers[clientID] = sub

	if ctx.Done() != nil {
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			select {
			case <-ctx.Done():
				_ = sub.Close()
			case <-sub.done:
			}
		}()
	}

	return sub, nil
}

// Broadcast sends the notification to every active subscriber. A
// subscriber whose buffer stays full past the write timeout is closed
// and dropped from the registry; delivery to the rest continues.
// Writes run concurrently, so one stalled subscriber costs the call at
// most a single write timeout rather than one per slow client.
func (b *MemoryBroadcaster) Broadcast(ctx context.Context, n notification.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrClosed
	}
	subs := make([]*Subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub *Subscriber) {
			defer wg.Done()
			b.send(sub, n)
		}(sub)
	}
	wg.Wait()
	return nil
}

// send attempts a single delivery with the write timeout. The fast path
// avoids a timer allocation when the buffer has room.
func (b *MemoryBroadcaster) send(sub *Subscriber, n notification.Notification) {
	select {
	case sub.ch <- n:
		return
	case <-sub.done:
		return
	default:
	}

	timer := time.NewTimer(b.writeTimeout)
	defer timer.Stop()

	select {
	case sub.ch <- n:
	case <-sub.done:
	case <-timer.C:
		// Slow consumer: cut it loose rather than stall the fan-out.
		_ = sub.Close()
	}
}

// Unsubscribe removes and closes the subscription for the client id.
func (b *MemoryBroadcaster) Unsubscribe(clientID string) {
	b.mu.RLock()
	sub, ok := b.subscribers[clientID]
	b.mu.RUnlock()
	if ok {
		_ = sub.Close()
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *MemoryBroadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close shuts down the broadcaster and closes every subscriber.
// Safe to call multiple times.
func (b *MemoryBroadcaster) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := make([]*Subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}

	b.cleanupWg.Wait()
	return nil
}

func (b *MemoryBroadcaster) remove(clientID string) {
	b.mu.Lock()
	delete(b.subscribers, clientID)
	b.mu.Unlock()
}
