package dispatch_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightnest/bookingcore/pkg/dispatch"
)

func bookingData() map[string]string {
	return map[string]string{
		"booking_id":     "bk_123",
		"service_type":   "deep_clean",
		"scheduled_date": "2026-09-15",
		"customer_name":  "Dana",
		"customer_email": "dana@example.com",
		"customer_phone": "+15551234567",
		"address":        "12 Oak St",
	}
}

func TestDispatcherResolve(t *testing.T) {
	t.Parallel()

	t.Run("booking created expands to sms and email", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		msgs, err := d.Resolve(dispatch.TriggerBookingCreated, bookingData())
		require.NoError(t, err)
		require.Len(t, msgs, 2)

		byChannel := map[dispatch.Channel]dispatch.Message{}
		for _, m := range msgs {
			byChannel[m.Channel] = m
		}
		assert.Equal(t, "+15551234567", byChannel[dispatch.ChannelSMS].To)
		assert.Empty(t, byChannel[dispatch.ChannelSMS].Subject)
		assert.Equal(t, "dana@example.com", byChannel[dispatch.ChannelEmail].To)
		assert.NotEmpty(t, byChannel[dispatch.ChannelEmail].Subject)
	})

	t.Run("missing contact method skips that channel", func(t *testing.T) {
		t.Parallel()

		data := bookingData()
		delete(data, "customer_phone")

		d := dispatch.New()
		msgs, err := d.Resolve(dispatch.TriggerBookingCreated, data)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, dispatch.ChannelEmail, msgs[0].Channel)
	})

	t.Run("unknown trigger", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		_, err := d.Resolve(dispatch.Trigger("made_up"), bookingData())
		assert.ErrorIs(t, err, dispatch.ErrUnknownTrigger)
	})

	t.Run("rule naming a missing template fails", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New(dispatch.WithRules(dispatch.NewRuleSet(dispatch.Rule{
			ID:         "bad",
			Trigger:    dispatch.TriggerCustom,
			TemplateID: "gone",
			Channels:   []dispatch.Channel{dispatch.ChannelSMS},
			Enabled:    true,
		})))
		_, err := d.Resolve(dispatch.TriggerCustom, bookingData())
		assert.ErrorIs(t, err, dispatch.ErrUnknownTemplate)
	})
}

func TestDispatcherSend(t *testing.T) {
	t.Parallel()

	t.Run("successful send returns message id", func(t *testing.T) {
		t.Parallel()

		sender := dispatch.NewDevSender()
		d := dispatch.New(dispatch.WithSender(dispatch.ChannelSMS, sender))

		res := d.Send(context.Background(), dispatch.Message{
			Channel: dispatch.ChannelSMS, To: "+15551234567", Body: "hi",
		})
		assert.True(t, res.Success)
		assert.NotEmpty(t, res.MessageID)
		assert.Len(t, sender.Sent(), 1)
	})

	t.Run("invalid message fails without touching the sender", func(t *testing.T) {
		t.Parallel()

		sender := dispatch.NewDevSender()
		d := dispatch.New(dispatch.WithSender(dispatch.ChannelSMS, sender))

		res := d.Send(context.Background(), dispatch.Message{Channel: dispatch.ChannelSMS, To: "bad"})
		assert.False(t, res.Success)
		assert.NotEmpty(t, res.Error)
		assert.Empty(t, sender.Sent())
	})

	t.Run("sender failure is captured in the result", func(t *testing.T) {
		t.Parallel()

		failing := dispatch.SenderFunc(func(context.Context, dispatch.Message) (string, error) {
			return "", errors.New("provider unavailable")
		})
		d := dispatch.New(dispatch.WithSender(dispatch.ChannelSMS, failing))

		res := d.Send(context.Background(), dispatch.Message{
			Channel: dispatch.ChannelSMS, To: "+15551234567", Body: "hi",
		})
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "provider unavailable")
	})

	t.Run("no sender for channel", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		res := d.Send(context.Background(), dispatch.Message{
			Channel: dispatch.ChannelEmail, To: "dana@example.com", Body: "hi",
		})
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "no sender")
	})
}

func TestDispatcherSendBulk(t *testing.T) {
	t.Parallel()

	t.Run("partial failure is isolated", func(t *testing.T) {
		t.Parallel()

		sender := dispatch.NewDevSender()
		sender.FailFor = map[string]error{"+15550000003": errors.New("carrier rejected")}
		d := dispatch.New(dispatch.WithSender(dispatch.ChannelSMS, sender))

		msgs := make([]dispatch.Message, 5)
		for i := range msgs {
			msgs[i] = dispatch.Message{
				Channel: dispatch.ChannelSMS,
				To:      fmt.Sprintf("+1555000000%d", i+1),
				Body:    "hi",
			}
		}

		results, summary := d.SendBulk(context.Background(), msgs, dispatch.BulkOptions{})
		require.Len(t, results, 5)
		assert.Equal(t, dispatch.Summary{Total: 5, Successful: 4, Failed: 1}, summary)

		// Results stay in input order regardless of concurrency.
		for i, r := range results {
			assert.Equal(t, msgs[i].To, r.To)
		}
		assert.False(t, results[2].Success)
		assert.Contains(t, results[2].Error, "carrier rejected")
	})

	t.Run("cancellation between batches fails the remainder", func(t *testing.T) {
		t.Parallel()

		sender := dispatch.NewDevSender()
		d := dispatch.New(dispatch.WithSender(dispatch.ChannelSMS, sender))

		msgs := make([]dispatch.Message, 4)
		for i := range msgs {
			msgs[i] = dispatch.Message{
				Channel: dispatch.ChannelSMS,
				To:      fmt.Sprintf("+1555000000%d", i+1),
				Body:    "hi",
			}
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// First batch still goes out: cancellation is only checked before
		// the second batch starts.
		results, summary := d.SendBulk(ctx, msgs, dispatch.BulkOptions{BatchSize: 2})
		require.Len(t, results, 4)
		assert.Equal(t, 4, summary.Total)
		assert.Equal(t, 2, summary.Failed)
		assert.False(t, results[2].Success)
		assert.False(t, results[3].Success)
	})

	t.Run("batch size is clamped", func(t *testing.T) {
		t.Parallel()

		sender := dispatch.NewDevSender()
		d := dispatch.New(dispatch.WithSender(dispatch.ChannelSMS, sender))

		msgs := []dispatch.Message{{Channel: dispatch.ChannelSMS, To: "+15551234567", Body: "hi"}}
		results, summary := d.SendBulk(context.Background(), msgs, dispatch.BulkOptions{BatchSize: 500})
		require.Len(t, results, 1)
		assert.Equal(t, 1, summary.Successful)
	})
}

func TestDispatcherFire(t *testing.T) {
	t.Parallel()

	t.Run("fires configured rules", func(t *testing.T) {
		t.Parallel()

		smsSender := dispatch.NewDevSender()
		emailSender := dispatch.NewDevSender()
		d := dispatch.New(
			dispatch.WithSender(dispatch.ChannelSMS, smsSender),
			dispatch.WithSender(dispatch.ChannelEmail, emailSender),
		)

		err := d.Fire(context.Background(), "booking_created", bookingData())
		require.NoError(t, err)
		assert.Len(t, smsSender.Sent(), 1)
		assert.Len(t, emailSender.Sent(), 1)
	})

	t.Run("unknown trigger is an error", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		err := d.Fire(context.Background(), "made_up", bookingData())
		assert.ErrorIs(t, err, dispatch.ErrUnknownTrigger)
	})

	t.Run("send failures do not fail the trigger", func(t *testing.T) {
		t.Parallel()

		sender := dispatch.NewDevSender()
		sender.FailFor = map[string]error{"+15551234567": errors.New("down")}
		d := dispatch.New(dispatch.WithSender(dispatch.ChannelSMS, sender))

		err := d.Fire(context.Background(), "crew_arrival", bookingData())
		assert.NoError(t, err)
	})
}

func TestDispatcherStatus(t *testing.T) {
	t.Parallel()

	sender := dispatch.NewDevSender()
	d := dispatch.New(dispatch.WithSender(dispatch.ChannelSMS, sender))

	res := d.Send(context.Background(), dispatch.Message{
		Channel: dispatch.ChannelSMS, To: "+15551234567", Body: "hi",
	})
	require.True(t, res.Success)

	status, err := d.Status(context.Background(), res.MessageID)
	require.NoError(t, err)
	assert.Equal(t, "delivered", status)

	_, err = d.Status(context.Background(), "SMmissing")
	assert.ErrorIs(t, err, dispatch.ErrStatusNotFound)
}
