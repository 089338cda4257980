package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/brightnest/bookingcore/pkg/logger"
)

// handleNotificationStream serves the live feed over Server-Sent Events.
// The client id is server-generated; reconnecting clients get a fresh
// subscription with no replay.
func (a *API) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	clientID := uuid.New().String()
	sub, err := a.broadcaster.Subscribe(r.Context(), clientID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "stream unavailable")
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "event: connected\ndata: {\"clientId\":%q}\n\n", clientID)
	flusher.Flush()

	a.log.LogAttrs(r.Context(), slog.LevelDebug, "stream client connected", logger.ClientID(clientID))

	heartbeat := time.NewTicker(a.heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sub.Done():
			return
		case <-heartbeat.C:
			// Comment frames keep intermediaries from closing idle sockets.
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case n := <-sub.Receive():
			payload, err := json.Marshal(n)
			if err != nil {
				a.log.LogAttrs(r.Context(), slog.LevelWarn, "failed to encode stream frame",
					logger.ClientID(clientID),
					logger.NotificationID(n.ID),
					logger.Error(err),
				)
				continue
			}
			fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
