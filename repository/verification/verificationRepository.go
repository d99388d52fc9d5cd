package verification

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"voom/model"
)

type Repo interface {
	Upsert(ctx context.Context, d *model.VerificationDocument) error
	ByID(ctx context.Context, id int64) (*model.VerificationDocument, error)
	ByUser(ctx context.Context, userID int64) ([]model.VerificationDocument, error)
	SetStatus(ctx context.Context, id int64, status model.VerificationStatus, reviewedAt *time.Time) (*model.VerificationDocument, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const docCols = `id, user_id, document_type, document_url, status, reviewed_at, created_at`

// Upsert keeps one row per (user, document type); re-submitting a
// document restarts it at pending.
func (r *repo) Upsert(ctx context.Context, d *model.VerificationDocument) error {
	const q = `
		INSERT INTO verification_documents (user_id, document_type, document_url, status)
		VALUES ($1, $2, $3, 'pending')
		ON CONFLICT (user_id, document_type) DO UPDATE
			SET document_url = EXCLUDED.document_url,
			    status = 'pending',
			    reviewed_at = NULL
		RETURNING id, status, created_at`
	return r.db.QueryRowContext(ctx, q, d.UserID, d.DocumentType, d.DocumentURL).
		Scan(&d.ID, &d.Status, &d.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.VerificationDocument, error) {
	const q = `SELECT ` + docCols + ` FROM verification_documents WHERE id = $1`
	d, err := scanDoc(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (r *repo) ByUser(ctx context.Context, userID int64) ([]model.VerificationDocument, error) {
	const q = `
		SELECT ` + docCols + `
		FROM verification_documents
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.VerificationDocument
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *repo) SetStatus(ctx context.Context, id int64, status model.VerificationStatus, reviewedAt *time.Time) (*model.VerificationDocument, error) {
	const q = `
		UPDATE verification_documents
		SET status = $2, reviewed_at = COALESCE($3, reviewed_at)
		WHERE id = $1
		RETURNING ` + docCols
	d, err := scanDoc(r.db.QueryRowContext(ctx, q, id, status, reviewedAt))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func scanDoc(row interface{ Scan(dest ...any) error }) (*model.VerificationDocument, error) {
	d := &model.VerificationDocument{}
	err := row.Scan(&d.ID, &d.UserID, &d.DocumentType, &d.DocumentURL, &d.Status, &d.ReviewedAt, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}
