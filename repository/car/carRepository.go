// repository/car/repo.go
package car

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"voom/model"
)

// Filter narrows the public listing. Empty fields match everything.
type Filter struct {
	Location string
	Type     string
}

type Repo interface {
	Create(ctx context.Context, c *model.Car) error
	ByID(ctx context.Context, id int64) (*model.Car, error)
	Update(ctx context.Context, c *model.Car) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	SetStatus(ctx context.Context, id int64, status model.CarStatus) error
	ListAvailable(ctx context.Context, f Filter) ([]model.Car, error)
	ListByHost(ctx context.Context, hostID int64) ([]model.Car, error)
	IDsByHost(ctx context.Context, hostID int64) ([]int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const carCols = `id, host_id, make, model, year, type, daily_rate, currency,
	location, available, status, features, rating, rating_count, created_at`

func (r *repo) Create(ctx context.Context, c *model.Car) error {
	feats, err := json.Marshal(c.Features)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO cars
			(host_id, make, model, year, type, daily_rate, currency,
			 location, available, status, features)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		c.HostID, c.Make, c.Model, c.Year, c.Type, c.DailyRate, c.Currency,
		c.Location, c.Available, c.Status, feats,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Car, error) {
	const q = `SELECT ` + carCols + ` FROM cars WHERE id = $1`
	c, err := scanCar(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *repo) Update(ctx context.Context, c *model.Car) error {
	feats, err := json.Marshal(c.Features)
	if err != nil {
		return err
	}
	const q = `
		UPDATE cars
		SET make = $2, model = $3, year = $4, type = $5, daily_rate = $6,
			currency = $7, location = $8, features = $9
		WHERE id = $1`
	_, err = r.db.ExecContext(ctx, q,
		c.ID, c.Make, c.Model, c.Year, c.Type, c.DailyRate,
		c.Currency, c.Location, feats,
	)
	return err
}

func (r *repo) SetAvailability(ctx context.Context, id int64, available bool) error {
	const q = `UPDATE cars SET available = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, available)
	return err
}

func (r *repo) SetStatus(ctx context.Context, id int64, status model.CarStatus) error {
	const q = `UPDATE cars SET status = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status)
	return err
}

func (r *repo) ListAvailable(ctx context.Context, f Filter) ([]model.Car, error) {
	const q = `
		SELECT ` + carCols + `
		FROM cars
		WHERE available = TRUE
		  AND status = 'active'
		  AND ($1 = '' OR location ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR type = $2)
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, f.Location, f.Type)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repo) ListByHost(ctx context.Context, hostID int64) ([]model.Car, error) {
	const q = `
		SELECT ` + carCols + `
		FROM cars
		WHERE host_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repo) IDsByHost(ctx context.Context, hostID int64) ([]int64, error) {
	const q = `SELECT id FROM cars WHERE host_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanCar(row rowScanner) (*model.Car, error) {
	c := &model.Car{}
	var feats []byte
	err := row.Scan(
		&c.ID, &c.HostID, &c.Make, &c.Model, &c.Year, &c.Type, &c.DailyRate,
		&c.Currency, &c.Location, &c.Available, &c.Status, &feats,
		&c.Rating, &c.RatingCount, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(feats) > 0 {
		if err := json.Unmarshal(feats, &c.Features); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func collect(rows *sql.Rows) ([]model.Car, error) {
	var out []model.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
