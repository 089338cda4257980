package httpserver

import "errors"

var (
	// ErrStart wraps listener and startup failures from Run.
	ErrStart = errors.New("httpserver: server failed to start")
	// ErrShutdown wraps failures while draining connections during shutdown.
	ErrShutdown = errors.New("httpserver: graceful shutdown failed")
)
