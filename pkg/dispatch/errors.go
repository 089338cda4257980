package dispatch

import "errors"

var (
	// ErrUnknownTemplate is returned when a rule or caller names a template id that is not registered.
	ErrUnknownTemplate = errors.New("dispatch: unknown template")
	// ErrUnknownTrigger is returned for a trigger outside the known set.
	ErrUnknownTrigger = errors.New("dispatch: unknown trigger")
	// ErrNoSender is returned when no sender is registered for a message's channel.
	ErrNoSender = errors.New("dispatch: no sender registered for channel")
	// ErrStatusNotFound is returned when a message id is unknown to the status provider.
	ErrStatusNotFound = errors.New("dispatch: message status not found")
)
