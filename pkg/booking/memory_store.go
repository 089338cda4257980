package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for development and tests.
// The byIntent index under one mutex is what makes the check-then-act on
// the natural key atomic.
type MemoryStore struct {
	byID     map[string]Booking
	byIntent map[string]string // payment_intent_id -> booking id
	now      func() time.Time
	mu       sync.RWMutex
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryClock overrides the store's time source for tests.
func WithMemoryClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an empty in-memory booking store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		byID:     make(map[string]Booking),
		byIntent: make(map[string]string),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) CreateFromPayment(ctx context.Context, b Booking) (Booking, error) {
	if err := ctx.Err(); err != nil {
		return Booking{}, err
	}
	if b.PaymentIntentID == "" {
		return Booking{}, ErrMissingPaymentIntent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byIntent[b.PaymentIntentID]; exists {
		return Booking{}, ErrDuplicatePaymentIntent
	}

	now := s.now()
	b.ID = uuid.New().String()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Status == "" {
		b.Status = StatusConfirmed
	}

	s.byID[b.ID] = b
	s.byIntent[b.PaymentIntentID] = b.ID
	return b, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Booking, error) {
	if err := ctx.Err(); err != nil {
		return Booking{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byID[id]
	if !ok {
		return Booking{}, ErrNotFound
	}
	return b, nil
}

func (s *MemoryStore) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (Booking, error) {
	if err := ctx.Err(); err != nil {
		return Booking{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byIntent[paymentIntentID]
	if !ok {
		return Booking{}, ErrNotFound
	}
	return s.byID[id], nil
}

// Len returns the number of stored bookings.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, to Status) (Booking, error) {
	if err := ctx.Err(); err != nil {
		return Booking{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[id]
	if !ok {
		return Booking{}, ErrNotFound
	}
	if err := b.Transition(to, s.now()); err != nil {
		return Booking{}, err
	}
	s.byID[id] = b
	return b, nil
}
