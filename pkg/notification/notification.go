package notification

import "time"

// Type categorizes a notification for the operator feed.
type Type string

const (
	TypeBooking Type = "booking"
	TypePayment Type = "payment"
	TypeCrew    Type = "crew"
	TypeAlert   Type = "alert"
	TypeSystem  Type = "system"
)

// Priority represents the notification priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Notification is the core record of the feed.
// The zero UserID means the record is a broadcast visible to all users.
type Notification struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Priority  Priority       `json:"priority"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Read      bool           `json:"read"`
	ReadAt    *time.Time     `json:"readAt,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty"`
}

// IsExpired reports whether the notification has expired at t.
func (n *Notification) IsExpired(t time.Time) bool {
	if n.ExpiresAt == nil {
		return false
	}
	return t.After(*n.ExpiresAt)
}

// VisibleTo reports whether the record should appear in a query scoped to
// userID. Broadcast records (empty UserID) are visible to every query.
func (n *Notification) VisibleTo(userID string) bool {
	return n.UserID == "" || userID == "" || n.UserID == userID
}

func (n *Notification) markRead(at time.Time) {
	n.Read = true
	n.ReadAt = &at
}
