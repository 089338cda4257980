// Package httpapi is the HTTP surface of the booking core: webhook
// intake, the notification feed and its live stream, outbound message
// sends, and automation triggers.
//
// Handlers stay thin; all domain behavior lives in the booking,
// notification, stream and dispatch packages. Authentication is an
// injected guard function so the surface stays deployable behind any
// session scheme.
package httpapi
