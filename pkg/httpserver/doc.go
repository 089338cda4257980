// Package httpserver wraps http.Server with graceful shutdown, functional
// options, and start/stop hooks so the booking core binary can serve its
// webhook and admin endpoints without repeating lifecycle plumbing.
package httpserver
