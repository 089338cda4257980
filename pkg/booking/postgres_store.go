package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightnest/bookingcore/pkg/pg"
)

// PostgresStore is the production Store. The unique index on
// payment_intent_id makes CreateFromPayment atomic: concurrent duplicate
// deliveries race at the database, not in application code.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed booking store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const bookingColumns = `id, status, payment_intent_id, service_type, scheduled_date,
	customer_name, customer_email, customer_phone, address, amount, currency,
	created_at, updated_at`

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.Status, &b.PaymentIntentID, &b.ServiceType, &b.ScheduledDate,
		&b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.Address,
		&b.Amount, &b.Currency, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (s *PostgresStore) CreateFromPayment(ctx context.Context, b Booking) (Booking, error) {
	if b.PaymentIntentID == "" {
		return Booking{}, ErrMissingPaymentIntent
	}

	now := time.Now()
	b.ID = uuid.New().String()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Status == "" {
		b.Status = StatusConfirmed
	}

	// ON CONFLICT DO NOTHING returns no row for duplicates, which maps to
	// the idempotent no-op contract.
	row := s.pool.QueryRow(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (payment_intent_id) DO NOTHING
		RETURNING `+bookingColumns,
		b.ID, b.Status, b.PaymentIntentID, b.ServiceType, b.ScheduledDate,
		b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.Address,
		b.Amount, b.Currency, b.CreatedAt, b.UpdatedAt,
	)

	created, err := scanBooking(row)
	if pg.IsNotFoundError(err) || pg.IsDuplicateKeyError(err) {
		return Booking{}, ErrDuplicatePaymentIntent
	}
	if err != nil {
		return Booking{}, err
	}
	return created, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Booking, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if pg.IsNotFoundError(err) {
		return Booking{}, ErrNotFound
	}
	return b, err
}

func (s *PostgresStore) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (Booking, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE payment_intent_id = $1`, paymentIntentID)
	b, err := scanBooking(row)
	if pg.IsNotFoundError(err) {
		return Booking{}, ErrNotFound
	}
	return b, err
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, to Status) (Booking, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Booking{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Row lock so the transition check and the update are one atomic step.
	row := tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	b, err := scanBooking(row)
	if pg.IsNotFoundError(err) {
		return Booking{}, ErrNotFound
	}
	if err != nil {
		return Booking{}, err
	}

	if err := b.Transition(to, time.Now()); err != nil {
		return Booking{}, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`,
		b.Status, b.UpdatedAt, b.ID,
	); err != nil {
		return Booking{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Booking{}, err
	}
	return b, nil
}
