package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/brightnest/bookingcore/pkg/notification"
	"github.com/brightnest/bookingcore/pkg/validator"
)

type notificationListResponse struct {
	Notifications []notification.Notification `json:"notifications"`
	UnreadCount   int                         `json:"unreadCount"`
	TotalCount    int                         `json:"totalCount"`
}

func (a *API) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := notification.Filter{
		UserID:     q.Get("userId"),
		UnreadOnly: q.Get("unreadOnly") == "true",
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		f.Limit = limit
	}

	ctx := r.Context()
	store := a.feed.Store()

	records, err := store.List(ctx, f)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	unread, err := store.CountUnread(ctx, notification.Filter{UserID: f.UserID})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to count notifications")
		return
	}
	total, err := store.Count(ctx, notification.Filter{UserID: f.UserID})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to count notifications")
		return
	}

	if records == nil {
		records = []notification.Notification{}
	}
	respondJSON(w, http.StatusOK, notificationListResponse{
		Notifications: records,
		UnreadCount:   unread,
		TotalCount:    total,
	})
}

type markReadRequest struct {
	NotificationID string `json:"notificationId"`
	Read           bool   `json:"read"`
}

func (a *API) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.NotificationID == "" {
		respondError(w, http.StatusBadRequest, "notificationId is required")
		return
	}
	if !req.Read {
		// Un-reading is not supported; read state only moves forward.
		respondError(w, http.StatusBadRequest, "read must be true")
		return
	}

	found, err := a.feed.Store().MarkRead(r.Context(), req.NotificationID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update notification")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "notification not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

type createNotificationRequest struct {
	Type      notification.Type     `json:"type"`
	Priority  notification.Priority `json:"priority"`
	Title     string                `json:"title"`
	Message   string                `json:"message"`
	UserID    string                `json:"userId"`
	Data      map[string]any        `json:"data"`
	ExpiresAt *time.Time            `json:"expiresAt"`
}

func (req createNotificationRequest) validate() error {
	rules := []validator.Rule{
		validator.Required("title", req.Title),
		validator.Required("message", req.Message),
		validator.MaxLen("title", req.Title, 200),
		validator.OneOf("type", req.Type,
			notification.TypeBooking, notification.TypePayment, notification.TypeCrew,
			notification.TypeAlert, notification.TypeSystem),
	}
	if req.Priority != "" {
		rules = append(rules, validator.OneOf("priority", req.Priority,
			notification.PriorityLow, notification.PriorityNormal,
			notification.PriorityHigh, notification.PriorityUrgent))
	}
	return validator.Apply(rules...)
}

func (a *API) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		if verrs := validator.ExtractValidationErrors(err); len(verrs) > 0 {
			respondFieldErrors(w, verrs.FieldMap())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := a.feed.Publish(r.Context(), notification.Notification{
		Type:      req.Type,
		Priority:  req.Priority,
		Title:     req.Title,
		Message:   req.Message,
		UserID:    req.UserID,
		Data:      req.Data,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create notification")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}
