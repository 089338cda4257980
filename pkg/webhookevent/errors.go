package webhookevent

import "errors"

var (
	// ErrMissingSecret indicates the shared secret is not configured.
	// Callers should treat this as a server-side fault, not a bad request.
	ErrMissingSecret = errors.New("webhookevent: shared secret is not configured")
	// ErrMissingSignature indicates required signature headers are absent.
	ErrMissingSignature = errors.New("webhookevent: missing signature headers")
	// ErrInvalidSignature indicates the signature does not match the payload.
	ErrInvalidSignature = errors.New("webhookevent: signature mismatch")
	// ErrStaleTimestamp indicates the signed timestamp is outside the accepted window.
	ErrStaleTimestamp = errors.New("webhookevent: signature timestamp outside accepted window")
	// ErrMalformedEvent indicates the payload is not a decodable event.
	ErrMalformedEvent = errors.New("webhookevent: malformed event payload")
)
