package stream

import "errors"

var (
	// ErrClosed is returned when operating on a closed broadcaster.
	ErrClosed = errors.New("stream: broadcaster is closed")
	// ErrDuplicateClient is returned when a client id is already subscribed.
	ErrDuplicateClient = errors.New("stream: client id already subscribed")
)
