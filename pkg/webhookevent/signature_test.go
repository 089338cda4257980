package webhookevent_test

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightnest/bookingcore/pkg/webhookevent"
)

const secret = "whsec_local"

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		headers, err := webhookevent.SignPayload(secret, payload, time.Now())
		require.NoError(t, err)

		err = webhookevent.VerifySignature(secret, payload, headers, webhookevent.DefaultMaxAge)
		assert.NoError(t, err)
	})

	t.Run("tampered payload", func(t *testing.T) {
		t.Parallel()

		headers, err := webhookevent.SignPayload(secret, payload, time.Now())
		require.NoError(t, err)

		err = webhookevent.VerifySignature(secret, []byte(`{"id":"evt_2"}`), headers, webhookevent.DefaultMaxAge)
		assert.ErrorIs(t, err, webhookevent.ErrInvalidSignature)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		headers, err := webhookevent.SignPayload(secret, payload, time.Now())
		require.NoError(t, err)

		err = webhookevent.VerifySignature("whsec_other", payload, headers, webhookevent.DefaultMaxAge)
		assert.ErrorIs(t, err, webhookevent.ErrInvalidSignature)
	})

	t.Run("stale timestamp", func(t *testing.T) {
		t.Parallel()

		headers, err := webhookevent.SignPayload(secret, payload, time.Now().Add(-10*time.Minute))
		require.NoError(t, err)

		err = webhookevent.VerifySignature(secret, payload, headers, webhookevent.DefaultMaxAge)
		assert.ErrorIs(t, err, webhookevent.ErrStaleTimestamp)
	})

	t.Run("far future timestamp", func(t *testing.T) {
		t.Parallel()

		headers, err := webhookevent.SignPayload(secret, payload, time.Now().Add(10*time.Minute))
		require.NoError(t, err)

		err = webhookevent.VerifySignature(secret, payload, headers, webhookevent.DefaultMaxAge)
		assert.ErrorIs(t, err, webhookevent.ErrStaleTimestamp)
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Parallel()

		headers, err := webhookevent.SignPayload(secret, payload, time.Now())
		require.NoError(t, err)

		err = webhookevent.VerifySignature("", payload, headers, webhookevent.DefaultMaxAge)
		assert.ErrorIs(t, err, webhookevent.ErrMissingSecret)

		_, err = webhookevent.SignPayload("", payload, time.Now())
		assert.ErrorIs(t, err, webhookevent.ErrMissingSecret)
	})

	t.Run("missing signature", func(t *testing.T) {
		t.Parallel()

		err := webhookevent.VerifySignature(secret, payload, webhookevent.SignatureHeaders{}, webhookevent.DefaultMaxAge)
		assert.ErrorIs(t, err, webhookevent.ErrMissingSignature)
	})

	t.Run("zero max age disables replay check", func(t *testing.T) {
		t.Parallel()

		headers, err := webhookevent.SignPayload(secret, payload, time.Now().Add(-24*time.Hour))
		require.NoError(t, err)

		err = webhookevent.VerifySignature(secret, payload, headers, 0)
		assert.NoError(t, err)
	})
}

func TestExtractSignatureHeaders(t *testing.T) {
	t.Parallel()

	t.Run("both headers present", func(t *testing.T) {
		t.Parallel()

		ts := time.Now().Unix()
		h := http.Header{}
		h.Set(webhookevent.HeaderSignature, "deadbeef")
		h.Set(webhookevent.HeaderTimestamp, strconv.FormatInt(ts, 10))

		got, err := webhookevent.ExtractSignatureHeaders(h)
		require.NoError(t, err)
		assert.Equal(t, "deadbeef", got.Signature)
		assert.Equal(t, ts, got.Timestamp)
	})

	t.Run("missing headers", func(t *testing.T) {
		t.Parallel()

		_, err := webhookevent.ExtractSignatureHeaders(http.Header{})
		assert.ErrorIs(t, err, webhookevent.ErrMissingSignature)
	})

	t.Run("garbage timestamp", func(t *testing.T) {
		t.Parallel()

		h := http.Header{}
		h.Set(webhookevent.HeaderSignature, "deadbeef")
		h.Set(webhookevent.HeaderTimestamp, "yesterday")

		_, err := webhookevent.ExtractSignatureHeaders(h)
		assert.ErrorIs(t, err, webhookevent.ErrMissingSignature)
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("full payment event", func(t *testing.T) {
		t.Parallel()

		body := []byte(`{
			"id": "evt_1",
			"type": "payment_intent.succeeded",
			"data": {
				"payment_intent_id": "pi_1",
				"amount": 12900,
				"currency": "usd",
				"booking": {
					"service_type": "deep_clean",
					"scheduled_date": "2026-09-15",
					"customer_name": "Dana",
					"customer_email": "dana@example.com"
				}
			}
		}`)

		ev, err := webhookevent.Parse(body)
		require.NoError(t, err)
		assert.Equal(t, webhookevent.TypePaymentSucceeded, ev.Type)
		assert.Equal(t, "pi_1", ev.Data.PaymentIntentID)
		assert.EqualValues(t, 12900, ev.Data.Amount)
		require.NotNil(t, ev.Data.Booking)
		assert.Equal(t, "Dana", ev.Data.Booking.CustomerName)
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()

		_, err := webhookevent.Parse([]byte(`{`))
		assert.ErrorIs(t, err, webhookevent.ErrMalformedEvent)
	})

	t.Run("missing id or type", func(t *testing.T) {
		t.Parallel()

		_, err := webhookevent.Parse([]byte(`{"type":"payment_intent.succeeded"}`))
		assert.ErrorIs(t, err, webhookevent.ErrMalformedEvent)

		_, err = webhookevent.Parse([]byte(`{"id":"evt_1"}`))
		assert.ErrorIs(t, err, webhookevent.ErrMalformedEvent)
	})

	t.Run("verify and parse rejects before decoding", func(t *testing.T) {
		t.Parallel()

		_, err := webhookevent.VerifyAndParse(secret, []byte(`{`), webhookevent.SignatureHeaders{Signature: "bad", Timestamp: time.Now().Unix()})
		assert.ErrorIs(t, err, webhookevent.ErrInvalidSignature)
	})
}
