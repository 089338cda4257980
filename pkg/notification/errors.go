package notification

import "errors"

// ErrInvalidCapacity is returned when a store is created with a non-positive capacity.
var ErrInvalidCapacity = errors.New("store capacity must be positive")
