package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/brightnest/bookingcore/pkg/booking"
	"github.com/brightnest/bookingcore/pkg/dispatch"
	"github.com/brightnest/bookingcore/pkg/notification"
	"github.com/brightnest/bookingcore/pkg/stream"
)

// AdminGuard reports whether the request is allowed to use the admin
// surface. How it decides (session, token, mTLS) is the deployment's
// business.
type AdminGuard func(*http.Request) bool

// AllowAll is the development guard.
func AllowAll(*http.Request) bool { return true }

// API owns the HTTP surface and its route wiring.
type API struct {
	reconciler        *booking.Reconciler
	feed              *notification.Feed
	broadcaster       stream.Broadcaster
	dispatcher        *dispatch.Dispatcher
	adminGuard        AdminGuard
	heartbeatInterval time.Duration
	log               *slog.Logger
}

// Option configures the API.
type Option func(*API)

// WithAdminGuard sets the admin authorization check.
func WithAdminGuard(g AdminGuard) Option {
	return func(a *API) {
		if g != nil {
			a.adminGuard = g
		}
	}
}

// WithHeartbeatInterval sets the SSE keep-alive interval.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(a *API) {
		if d > 0 {
			a.heartbeatInterval = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.log = log
		}
	}
}

// New creates the API over its collaborators.
func New(
	reconciler *booking.Reconciler,
	feed *notification.Feed,
	broadcaster stream.Broadcaster,
	dispatcher *dispatch.Dispatcher,
	opts ...Option,
) *API {
	a := &API{
		reconciler:        reconciler,
		feed:              feed,
		broadcaster:       broadcaster,
		dispatcher:        dispatcher,
		adminGuard:        AllowAll,
		heartbeatInterval: stream.DefaultHeartbeatInterval,
		log:               slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router builds the chi router for the full surface. The webhook and
// stream endpoints are public by design; everything else sits behind
// the admin guard.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/webhooks/payment", a.handlePaymentWebhook)

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Cache-Control", "Last-Event-ID"},
		}))
		r.Get("/notifications/stream", a.handleNotificationStream)
		// Preflight must resolve to a route or chi answers 405 before the
		// CORS middleware runs; the middleware intercepts the request.
		r.Options("/notifications/stream", func(http.ResponseWriter, *http.Request) {})
	})

	r.Group(func(r chi.Router) {
		r.Use(a.requireAdmin)

		r.Get("/notifications", a.handleListNotifications)
		r.Patch("/notifications", a.handleMarkNotificationRead)
		r.Post("/notifications", a.handleCreateNotification)

		r.Post("/messages/sms", a.handleSendSMS)
		r.Get("/messages/sms/status", a.handleSMSStatus)

		r.Post("/automation/trigger", a.handleAutomationTrigger)
		r.Get("/automation/config", a.handleAutomationConfig)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

func (a *API) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.adminGuard(r) {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
