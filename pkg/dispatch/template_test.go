package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightnest/bookingcore/pkg/dispatch"
)

func TestCatalogRender(t *testing.T) {
	t.Parallel()

	t.Run("renders booking fields into body and subject", func(t *testing.T) {
		t.Parallel()

		c := dispatch.DefaultTemplates()
		subject, body, err := c.Render("booking_confirmation", map[string]string{
			"customer_name":  "Dana",
			"service_type":   "deep_clean",
			"scheduled_date": "2026-09-15",
			"address":        "12 Oak St",
		})
		require.NoError(t, err)
		assert.Equal(t, "Your deep_clean booking is confirmed", subject)
		assert.Contains(t, body, "Hi Dana")
		assert.Contains(t, body, "2026-09-15")
		assert.Contains(t, body, "12 Oak St")
	})

	t.Run("missing fields render empty", func(t *testing.T) {
		t.Parallel()

		c := dispatch.DefaultTemplates()
		_, body, err := c.Render("service_reminder", map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, "Reminder: your  service is scheduled for .", body)
	})

	t.Run("unknown template id", func(t *testing.T) {
		t.Parallel()

		c := dispatch.DefaultTemplates()
		_, _, err := c.Render("no_such_template", nil)
		assert.ErrorIs(t, err, dispatch.ErrUnknownTemplate)
	})

	t.Run("custom catalog", func(t *testing.T) {
		t.Parallel()

		c := dispatch.NewCatalog(dispatch.Template{
			ID:   "greeting",
			Name: "Greeting",
			Body: "Hello {{.customer_name}}!",
		})
		_, body, err := c.Render("greeting", map[string]string{"customer_name": "Lee"})
		require.NoError(t, err)
		assert.Equal(t, "Hello Lee!", body)

		got, ok := c.Get("greeting")
		require.True(t, ok)
		assert.Equal(t, "Greeting", got.Name)
		assert.Len(t, c.All(), 1)
	})
}
