package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brightnest/bookingcore/pkg/notification"
)

// ErrRedisNotReady is returned when the Redis server cannot be reached.
var ErrRedisNotReady = errors.New("stream: redis server is not ready")

// ConnectRedis establishes a Redis client from a connection URL, retrying
// until the server answers a ping or the attempts are exhausted.
func ConnectRedis(ctx context.Context, url string, attempts int, interval time.Duration) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrRedisNotReady, err)
	}

	for i := 0; i < max(attempts, 1); i++ {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(interval):
		}
	}

	return nil, ErrRedisNotReady
}

// RedisBroadcaster carries the Broadcaster contract across process
// boundaries via Redis pub/sub. Every instance publishes broadcasts to a
// shared channel and relays received messages to its local subscribers,
// so a notification created on one instance reaches clients connected to
// any of them. Cross-instance ordering is not guaranteed.
type RedisBroadcaster struct {
	client  *redis.Client
	channel string
	local   *MemoryBroadcaster
	pubsub  *redis.PubSub
	cancel  context.CancelFunc
	log     *slog.Logger
}

// NewRedisBroadcaster starts the relay loop and returns the broadcaster.
// The channel names the Redis pub/sub topic shared by all instances.
func NewRedisBroadcaster(client *redis.Client, channel string, log *slog.Logger, opts ...MemoryOption) (*RedisBroadcaster, error) {
	if channel == "" {
		channel = "bookingcore:notifications"
	}
	if log == nil {
		log = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &RedisBroadcaster{
		client:  client,
		channel: channel,
		local:   NewMemoryBroadcaster(opts...),
		pubsub:  client.Subscribe(ctx, channel),
		cancel:  cancel,
		log:     log,
	}

	go b.relay(ctx)
	return b, nil
}

// relay feeds messages published by any instance into local fan-out.
func (b *RedisBroadcaster) relay(ctx context.Context) {
	ch := b.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var n notification.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				b.log.LogAttrs(ctx, slog.LevelWarn, "dropping undecodable pubsub message",
					slog.String("channel", b.channel),
					slog.Any("error", err),
				)
				continue
			}
			_ = b.local.Broadcast(ctx, n)
		}
	}
}

// Subscribe registers a local live connection.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, clientID string) (*Subscriber, error) {
	return b.local.Subscribe(ctx, clientID)
}

// Broadcast publishes the notification to the shared channel. Delivery
// to local subscribers happens through the same relay loop as remote
// messages, keeping one ordering path per instance.
func (b *RedisBroadcaster) Broadcast(ctx context.Context, n notification.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

// Unsubscribe removes and closes the local subscription for the client id.
func (b *RedisBroadcaster) Unsubscribe(clientID string) {
	b.local.Unsubscribe(clientID)
}

// SubscriberCount returns the number of local subscriptions.
func (b *RedisBroadcaster) SubscriberCount() int {
	return b.local.SubscriberCount()
}

// Close stops the relay loop and closes all local subscribers.
func (b *RedisBroadcaster) Close() error {
	b.cancel()
	err := b.pubsub.Close()
	return errors.Join(err, b.local.Close())
}
