package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightnest/bookingcore/pkg/booking"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to booking.Status }{
		{booking.StatusScheduled, booking.StatusConfirmed},
		{booking.StatusScheduled, booking.StatusCancelled},
		{booking.StatusConfirmed, booking.StatusInProgress},
		{booking.StatusConfirmed, booking.StatusCancelled},
		{booking.StatusConfirmed, booking.StatusRescheduled},
		{booking.StatusInProgress, booking.StatusCompleted},
		{booking.StatusInProgress, booking.StatusCancelled},
		{booking.StatusInProgress, booking.StatusRescheduled},
	}
	for _, tc := range allowed {
		assert.True(t, booking.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to booking.Status }{
		{booking.StatusCompleted, booking.StatusScheduled},
		{booking.StatusCompleted, booking.StatusInProgress},
		{booking.StatusCancelled, booking.StatusConfirmed},
		{booking.StatusRescheduled, booking.StatusInProgress},
		{booking.StatusScheduled, booking.StatusCompleted},
		{booking.StatusConfirmed, booking.StatusScheduled},
	}
	for _, tc := range denied {
		assert.False(t, booking.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransition(t *testing.T) {
	t.Parallel()

	t.Run("allowed change updates status and timestamp", func(t *testing.T) {
		t.Parallel()

		at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		b := booking.Booking{Status: booking.StatusConfirmed}

		require.NoError(t, b.Transition(booking.StatusInProgress, at))
		assert.Equal(t, booking.StatusInProgress, b.Status)
		assert.Equal(t, at, b.UpdatedAt)
	})

	t.Run("rejected change leaves the record untouched", func(t *testing.T) {
		t.Parallel()

		b := booking.Booking{Status: booking.StatusCompleted}
		err := b.Transition(booking.StatusScheduled, time.Now())

		require.Error(t, err)
		assert.True(t, booking.IsInvalidTransition(err))
		assert.Equal(t, booking.StatusCompleted, b.Status)
		assert.True(t, b.UpdatedAt.IsZero())

		var te *booking.InvalidTransitionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, booking.StatusCompleted, te.From)
		assert.Equal(t, booking.StatusScheduled, te.To)
	})
}

func TestStatusValid(t *testing.T) {
	t.Parallel()

	assert.True(t, booking.StatusScheduled.Valid())
	assert.True(t, booking.StatusRescheduled.Valid())
	assert.False(t, booking.Status("pending").Valid())
	assert.False(t, booking.Status("").Valid())
}
