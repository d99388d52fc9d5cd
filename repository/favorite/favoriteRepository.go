package favorite

import (
	"context"
	"database/sql"
	"encoding/json"

	"voom/model"
)

type Repo interface {
	Add(ctx context.Context, userID, carID int64) (*model.Favorite, error)
	Remove(ctx context.Context, userID, carID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Car, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Add(ctx context.Context, userID, carID int64) (*model.Favorite, error) {
	// ON CONFLICT keeps re-favoriting idempotent.
	const q = `
		INSERT INTO favorites (user_id, car_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, car_id) DO UPDATE SET user_id = favorites.user_id
		RETURNING id, user_id, car_id, created_at`
	f := &model.Favorite{}
	err := r.db.QueryRowContext(ctx, q, userID, carID).
		Scan(&f.ID, &f.UserID, &f.CarID, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *repo) Remove(ctx context.Context, userID, carID int64) (bool, error) {
	const q = `DELETE FROM favorites WHERE user_id = $1 AND car_id = $2`
	res, err := r.db.ExecContext(ctx, q, userID, carID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Car, error) {
	const q = `
		SELECT c.id, c.host_id, c.make, c.model, c.year, c.type, c.daily_rate,
		       c.currency, c.location, c.available, c.status, c.features,
		       c.rating, c.rating_count, c.created_at
		FROM favorites f
		JOIN cars c ON c.id = f.car_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Car
	for rows.Next() {
		var c model.Car
		var feats []byte
		if err := rows.Scan(
			&c.ID, &c.HostID, &c.Make, &c.Model, &c.Year, &c.Type, &c.DailyRate,
			&c.Currency, &c.Location, &c.Available, &c.Status, &feats,
			&c.Rating, &c.RatingCount, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(feats) > 0 {
			if err := json.Unmarshal(feats, &c.Features); err != nil {
				return nil, err
			}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
