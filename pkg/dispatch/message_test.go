package dispatch_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightnest/bookingcore/pkg/dispatch"
	"github.com/brightnest/bookingcore/pkg/validator"
)

func TestMessageValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid sms", func(t *testing.T) {
		t.Parallel()

		msg := dispatch.Message{Channel: dispatch.ChannelSMS, To: "+15551234567", Body: "hi"}
		assert.NoError(t, msg.Validate())
	})

	t.Run("valid email", func(t *testing.T) {
		t.Parallel()

		msg := dispatch.Message{Channel: dispatch.ChannelEmail, To: "dana@example.com", Subject: "hello", Body: "hi"}
		assert.NoError(t, msg.Validate())
	})

	t.Run("sms body over limit", func(t *testing.T) {
		t.Parallel()

		msg := dispatch.Message{
			Channel: dispatch.ChannelSMS,
			To:      "+15551234567",
			Body:    strings.Repeat("x", dispatch.MaxSMSLength+1),
		}
		err := msg.Validate()
		require.Error(t, err)

		verrs := validator.ExtractValidationErrors(err)
		require.NotEmpty(t, verrs)
		assert.Contains(t, verrs.FieldMap(), "body")
	})

	t.Run("bad phone number", func(t *testing.T) {
		t.Parallel()

		msg := dispatch.Message{Channel: dispatch.ChannelSMS, To: "not-a-phone", Body: "hi"}
		err := msg.Validate()
		require.Error(t, err)

		verrs := validator.ExtractValidationErrors(err)
		require.NotEmpty(t, verrs)
		assert.Contains(t, verrs.FieldMap(), "to")
	})

	t.Run("bad email address", func(t *testing.T) {
		t.Parallel()

		msg := dispatch.Message{Channel: dispatch.ChannelEmail, To: "nope", Body: "hi"}
		assert.Error(t, msg.Validate())
	})

	t.Run("unknown channel", func(t *testing.T) {
		t.Parallel()

		msg := dispatch.Message{Channel: "fax", To: "+15551234567", Body: "hi"}
		assert.Error(t, msg.Validate())
	})

	t.Run("missing recipient and body", func(t *testing.T) {
		t.Parallel()

		err := dispatch.Message{Channel: dispatch.ChannelSMS}.Validate()
		require.Error(t, err)

		verrs := validator.ExtractValidationErrors(err)
		require.NotEmpty(t, verrs)
		fields := verrs.FieldMap()
		assert.Contains(t, fields, "to")
		assert.Contains(t, fields, "body")
	})
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	results := []dispatch.Result{
		{To: "+15550000001", Success: true},
		{To: "+15550000002", Success: false, Error: "boom"},
		{To: "+15550000003", Success: true},
	}
	s := dispatch.Summarize(results)
	assert.Equal(t, dispatch.Summary{Total: 3, Successful: 2, Failed: 1}, s)

	assert.Equal(t, dispatch.Summary{}, dispatch.Summarize(nil))
}
