package user

import (
	"context"
	"database/sql"
	"errors"

	"voom/model"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
	SetVerified(ctx context.Context, id int64, verified bool) error
	SetHost(ctx context.Context, id int64, isHost bool) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const userCols = `id, first_name, last_name, email, phone_number,
	password_hash, profile_picture, is_host, verified, created_at`

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users (first_name, last_name, email, phone_number, password_hash)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at`,
		u.FirstName, u.LastName, u.Email, u.PhoneNumber, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE lower(email) = lower($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *repo) SetVerified(ctx context.Context, id int64, verified bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET verified = $2 WHERE id = $1`, id, verified)
	return err
}

func (r *repo) SetHost(ctx context.Context, id int64, isHost bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_host = $2 WHERE id = $1`, id, isHost)
	return err
}

func scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber,
		&u.PasswordHash, &u.ProfilePicture, &u.IsHost, &u.Verified, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}
