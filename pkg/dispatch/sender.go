package dispatch

import "context"

// Sender delivers a single message on one channel and returns the
// provider message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// StatusProvider looks up delivery status by provider message id.
// Senders that cannot report status simply don't implement it.
type StatusProvider interface {
	Status(ctx context.Context, messageID string) (string, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, msg Message) (string, error)

func (f SenderFunc) Send(ctx context.Context, msg Message) (string, error) {
	return f(ctx, msg)
}
