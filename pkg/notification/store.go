package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit bounds List results when the caller does not set one.
const DefaultListLimit = 50

// Filter narrows List and CountUnread results.
type Filter struct {
	UserID     string // scope to this user's records plus broadcasts
	UnreadOnly bool
	Limit      int // 0 means DefaultListLimit
}

// Store is an in-memory, bounded notification store.
// Records are kept newest-first; once capacity is exceeded the single
// oldest record is evicted regardless of read state or priority.
type Store struct {
	capacity int
	records  []Notification // index 0 is newest
	now      func() time.Time
	mu       sync.RWMutex
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the store's time source. Used by tests to control
// expiry and ordering deterministically.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a bounded notification store.
func NewStore(capacity int, opts ...StoreOption) (*Store, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	s := &Store{
		capacity: capacity,
		records:  make([]Notification, 0, capacity),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create assigns an id and creation time, inserts the record at the head
// of the feed, and evicts the oldest record when capacity is exceeded.
// The stored record is returned.
func (s *Store) Create(ctx context.Context, n Notification) (Notification, error) {
	if err := ctx.Err(); err != nil {
		return Notification{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = uuid.New().String()
	n.CreatedAt = s.now()
	n.Read = false
	n.ReadAt = nil
	if n.Priority == "" {
		n.Priority = PriorityNormal
	}

	s.records = append([]Notification{n}, s.records...)
	if len(s.records) > s.capacity {
		// Records are ordered by creation time, so the tail is the oldest.
		s.records = s.records[:s.capacity]
	}

	return n, nil
}

// List returns matching records newest-first. Expired records are
// filtered out, broadcast records match every user filter, and the
// result is truncated to the filter limit.
func (s *Store) List(ctx context.Context, f Filter) ([]Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]Notification, 0, min(limit, len(s.records)))
	for i := range s.records {
		n := &s.records[i]
		if n.IsExpired(now) {
			continue
		}
		if !n.VisibleTo(f.UserID) {
			continue
		}
		if f.UnreadOnly && n.Read {
			continue
		}
		out = append(out, *n)
		if len(out) == limit {
			break
		}
	}

	return out, nil
}

// MarkRead marks the record read and reports whether the id was known.
// Marking an already-read record is a successful no-op.
func (s *Store) MarkRead(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			if !s.records[i].Read {
				s.records[i].markRead(s.now())
			}
			return true, nil
		}
	}
	return false, nil
}

// CountUnread returns the number of unread, unexpired records visible to
// the filter's user.
func (s *Store) CountUnread(ctx context.Context, f Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	count := 0
	for i := range s.records {
		n := &s.records[i]
		if !n.Read && !n.IsExpired(now) && n.VisibleTo(f.UserID) {
			count++
		}
	}
	return count, nil
}

// Count returns the number of unexpired records visible to the filter's user.
func (s *Store) Count(ctx context.Context, f Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	count := 0
	for i := range s.records {
		n := &s.records[i]
		if !n.IsExpired(now) && n.VisibleTo(f.UserID) {
			count++
		}
	}
	return count, nil
}
