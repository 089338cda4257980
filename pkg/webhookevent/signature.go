package webhookevent

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Header names follow the scheme used by major webhook providers.
const (
	HeaderSignature = "X-Webhook-Signature"
	HeaderTimestamp = "X-Webhook-Timestamp"
)

// DefaultMaxAge bounds how old a signed timestamp may be before the
// delivery is rejected as a possible replay.
const DefaultMaxAge = 5 * time.Minute

// SignatureHeaders carries the signature data extracted from a delivery.
type SignatureHeaders struct {
	Signature string
	Timestamp int64
}

// ExtractSignatureHeaders reads signature data from HTTP headers.
func ExtractSignatureHeaders(h http.Header) (SignatureHeaders, error) {
	sig := SignatureHeaders{Signature: h.Get(HeaderSignature)}

	ts := h.Get(HeaderTimestamp)
	if sig.Signature == "" || ts == "" {
		return SignatureHeaders{}, ErrMissingSignature
	}

	var err error
	sig.Timestamp, err = strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return SignatureHeaders{}, fmt.Errorf("%w: invalid timestamp format", ErrMissingSignature)
	}

	return sig, nil
}

// SignPayload creates signature headers for a payload. Used by tests and
// by tooling that replays captured deliveries against a local instance.
func SignPayload(secret string, payload []byte, ts time.Time) (SignatureHeaders, error) {
	if secret == "" {
		return SignatureHeaders{}, ErrMissingSecret
	}

	timestamp := ts.Unix()
	return SignatureHeaders{
		Signature: computeSignature(secret, payload, timestamp),
		Timestamp: timestamp,
	}, nil
}

// VerifySignature validates webhook authenticity and rejects replays.
// Uses constant-time comparison and timestamp validation.
func VerifySignature(secret string, payload []byte, headers SignatureHeaders, maxAge time.Duration) error {
	if secret == "" {
		return ErrMissingSecret
	}
	if headers.Signature == "" {
		return ErrMissingSignature
	}

	if maxAge > 0 {
		age := time.Since(time.Unix(headers.Timestamp, 0))
		if age > maxAge {
			return fmt.Errorf("%w: signature is %v old", ErrStaleTimestamp, age)
		}
		// Allow reasonable clock skew but reject far-future timestamps.
		if age < -1*time.Minute {
			return fmt.Errorf("%w: signature timestamp is in the future", ErrStaleTimestamp)
		}
	}

	expected := computeSignature(secret, payload, headers.Timestamp)
	if !hmac.Equal([]byte(expected), []byte(headers.Signature)) {
		return ErrInvalidSignature
	}

	return nil
}

// computeSignature binds the signature to the timestamp so a captured
// payload cannot be replayed later with fresh headers.
func computeSignature(secret string, payload []byte, timestamp int64) string {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.%s", timestamp, payload)
	return hex.EncodeToString(h.Sum(nil))
}
