package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/brightnest/bookingcore/pkg/logger"
	"github.com/brightnest/bookingcore/pkg/webhookevent"
)

// maxWebhookBody bounds webhook payload reads. Providers send small
// JSON envelopes; anything bigger is abuse.
const maxWebhookBody = 1 << 20

func (a *API) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	headers, err := webhookevent.ExtractSignatureHeaders(r.Header)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = a.reconciler.HandleEvent(r.Context(), body, headers)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{"received": "true"})
	case errors.Is(err, webhookevent.ErrMissingSecret):
		// Service misconfiguration, not a bad delivery. The provider should
		// retry once the secret is configured.
		a.log.LogAttrs(r.Context(), slog.LevelError, "webhook secret not configured", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "webhook verification unavailable")
	default:
		respondError(w, http.StatusBadRequest, err.Error())
	}
}
