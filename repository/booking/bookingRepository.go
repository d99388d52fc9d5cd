package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"voom/model"
)

type Repo interface {
	Create(ctx context.Context, b *model.Booking) error
	ByID(ctx context.Context, id int64) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus, cancelledAt *time.Time) (*model.Booking, error)
	ConfirmPending(ctx context.Context, id int64) (*model.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Booking, error)
	ListForCars(ctx context.Context, carIDs []int64) ([]model.Booking, error)
	ExpireStalePending(ctx context.Context, now time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const bookingCols = `id, car_id, user_id, start_date, end_date,
	pickup_location, dropoff_location, total_amount, currency,
	payment_method, status, cancelled_at, created_at`

func (r *repo) Create(ctx context.Context, b *model.Booking) error {
	const q = `
		INSERT INTO bookings
			(car_id, user_id, start_date, end_date, pickup_location,
			 dropoff_location, total_amount, currency, payment_method, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		b.CarID, b.UserID, b.StartDate, b.EndDate, b.PickupLocation,
		b.DropoffLocation, b.TotalAmount, b.Currency, b.PaymentMethod, b.Status,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// ConfirmPending flips a pending booking to confirmed in a single
// guarded statement; a booking raced into any other status scans no
// row and returns nil.
func (r *repo) ConfirmPending(ctx context.Context, id int64) (*model.Booking, error) {
	const q = `
		UPDATE bookings
		SET status = 'confirmed'
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + bookingCols
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// UpdateStatus is last-write-wins; concurrent cancels of the same row
// converge on the terminal status.
func (r *repo) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus, cancelledAt *time.Time) (*model.Booking, error) {
	const q = `
		UPDATE bookings
		SET status = $2,
			cancelled_at = COALESCE($3, cancelled_at)
		WHERE id = $1
		RETURNING ` + bookingCols
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id, status, cancelledAt))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	const q = `
		SELECT ` + bookingCols + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repo) ListForCars(ctx context.Context, carIDs []int64) ([]model.Booking, error) {
	const q = `
		SELECT ` + bookingCols + `
		FROM bookings
		WHERE car_id = ANY($1)
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, carIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// ExpireStalePending cancels pending bookings whose pickup date has
// passed without host confirmation.
func (r *repo) ExpireStalePending(ctx context.Context, now time.Time) (int64, error) {
	const q = `
		UPDATE bookings
		SET status = 'cancelled',
			cancelled_at = $1
		WHERE status = 'pending' AND start_date < $1`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanBooking(row rowScanner) (*model.Booking, error) {
	b := &model.Booking{}
	err := row.Scan(
		&b.ID, &b.CarID, &b.UserID, &b.StartDate, &b.EndDate,
		&b.PickupLocation, &b.DropoffLocation, &b.TotalAmount, &b.Currency,
		&b.PaymentMethod, &b.Status, &b.CancelledAt, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func collect(rows *sql.Rows) ([]model.Booking, error) {
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
