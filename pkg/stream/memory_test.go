package stream_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightnest/bookingcore/pkg/notification"
	"github.com/brightnest/bookingcore/pkg/stream"
)

func receive(t *testing.T, sub *stream.Subscriber) notification.Notification {
	t.Helper()
	select {
	case n := <-sub.Receive():
		return n
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return notification.Notification{}
	}
}

func TestMemoryBroadcasterFanOut(t *testing.T) {
	t.Parallel()

	b := stream.NewMemoryBroadcaster()
	t.Cleanup(func() { _ = b.Close() })

	subs := make([]*stream.Subscriber, 3)
	for i, id := range []string{"c1", "c2", "c3"} {
		sub, err := b.Subscribe(context.Background(), id)
		require.NoError(t, err)
		subs[i] = sub
	}
	assert.Equal(t, 3, b.SubscriberCount())

	n := notification.Notification{ID: "n1", Title: "hello"}
	require.NoError(t, b.Broadcast(context.Background(), n))

	for _, sub := range subs {
		got := receive(t, sub)
		assert.Equal(t, "n1", got.ID)
	}

	// A subscriber joining after the broadcast sees nothing: no replay.
	late, err := b.Subscribe(context.Background(), "c4")
	require.NoError(t, err)
	select {
	case <-late.Receive():
		t.Fatal("late subscriber must not receive earlier frames")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBroadcasterSlowSubscriber(t *testing.T) {
	t.Parallel()

	b := stream.NewMemoryBroadcaster(
		stream.WithBufferSize(1),
		stream.WithWriteTimeout(20*time.Millisecond),
	)
	t.Cleanup(func() { _ = b.Close() })

	slow, err := b.Subscribe(context.Background(), "slow")
	require.NoError(t, err)
	healthy, err := b.Subscribe(context.Background(), "healthy")
	require.NoError(t, err)

	// The slow subscriber never reads; the healthy one keeps up.
	require.NoError(t, b.Broadcast(context.Background(), notification.Notification{ID: "n1"}))
	assert.Equal(t, "n1", receive(t, healthy).ID)

	// Second frame overflows the slow subscriber's full buffer; after the
	// write timeout it is evicted while the healthy one still delivers.
	require.NoError(t, b.Broadcast(context.Background(), notification.Notification{ID: "n2"}))
	assert.Equal(t, "n2", receive(t, healthy).ID)

	select {
	case <-slow.Done():
	case <-time.After(time.Second):
		t.Fatal("slow subscriber was not evicted")
	}
	assert.Equal(t, 1, b.SubscriberCount())
}

func TestMemoryBroadcasterConcurrentFanOut(t *testing.T) {
	t.Parallel()

	const writeTimeout = 200 * time.Millisecond

	b := stream.NewMemoryBroadcaster(
		stream.WithBufferSize(1),
		stream.WithWriteTimeout(writeTimeout),
	)
	t.Cleanup(func() { _ = b.Close() })

	// Three stalled subscribers with full buffers plus one healthy reader.
	for _, id := range []string{"s1", "s2", "s3"} {
		_, err := b.Subscribe(context.Background(), id)
		require.NoError(t, err)
	}
	healthy, err := b.Subscribe(context.Background(), "healthy")
	require.NoError(t, err)

	require.NoError(t, b.Broadcast(context.Background(), notification.Notification{ID: "n1"}))
	assert.Equal(t, "n1", receive(t, healthy).ID)

	// All stalled buffers are now full. The second broadcast waits out the
	// write timeout once, not once per stalled subscriber.
	start := time.Now()
	require.NoError(t, b.Broadcast(context.Background(), notification.Notification{ID: "n2"}))
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 2*writeTimeout, "stalled subscribers serialized the fan-out")
	assert.Equal(t, "n2", receive(t, healthy).ID)
	assert.Equal(t, 1, b.SubscriberCount())
}

func TestMemoryBroadcasterRegistry(t *testing.T) {
	t.Parallel()

	t.Run("duplicate client id", func(t *testing.T) {
		t.Parallel()

		b := stream.NewMemoryBroadcaster()
		t.Cleanup(func() { _ = b.Close() })

		_, err := b.Subscribe(context.Background(), "c1")
		require.NoError(t, err)

		_, err = b.Subscribe(context.Background(), "c1")
		assert.ErrorIs(t, err, stream.ErrDuplicateClient)
	})

	t.Run("unsubscribe removes and signals done", func(t *testing.T) {
		t.Parallel()

		b := stream.NewMemoryBroadcaster()
		t.Cleanup(func() { _ = b.Close() })

		sub, err := b.Subscribe(context.Background(), "c1")
		require.NoError(t, err)

		b.Unsubscribe("c1")
		select {
		case <-sub.Done():
		case <-time.After(time.Second):
			t.Fatal("done was not signalled")
		}
		assert.Equal(t, 0, b.SubscriberCount())

		// A reconnect under the same id is allowed after removal.
		_, err = b.Subscribe(context.Background(), "c1")
		assert.NoError(t, err)
	})

	t.Run("subscriber close is idempotent", func(t *testing.T) {
		t.Parallel()

		b := stream.NewMemoryBroadcaster()
		t.Cleanup(func() { _ = b.Close() })

		sub, err := b.Subscribe(context.Background(), "c1")
		require.NoError(t, err)

		require.NoError(t, sub.Close())
		require.NoError(t, sub.Close())
		assert.Equal(t, 0, b.SubscriberCount())
	})

	t.Run("closed broadcaster rejects everything", func(t *testing.T) {
		t.Parallel()

		b := stream.NewMemoryBroadcaster()
		sub, err := b.Subscribe(context.Background(), "c1")
		require.NoError(t, err)

		require.NoError(t, b.Close())

		select {
		case <-sub.Done():
		case <-time.After(time.Second):
			t.Fatal("close did not end subscriptions")
		}

		_, err = b.Subscribe(context.Background(), "c2")
		assert.ErrorIs(t, err, stream.ErrClosed)
		assert.ErrorIs(t, b.Broadcast(context.Background(), notification.Notification{}), stream.ErrClosed)

		// Close twice is fine.
		assert.NoError(t, b.Close())
	})
}
