package message

import (
	"context"
	"database/sql"

	"voom/model"
)

type Repo interface {
	Insert(ctx context.Context, m *model.Message) error
	Thread(ctx context.Context, userID, partnerID int64, limit int) ([]model.Message, error)
	Conversations(ctx context.Context, userID int64) ([]model.Conversation, error)
	MarkRead(ctx context.Context, userID, partnerID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, m *model.Message) error {
	const q = `
		INSERT INTO messages (sender_id, recipient_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q, m.SenderID, m.RecipientID, m.Body).
		Scan(&m.ID, &m.CreatedAt)
}

func (r *repo) Thread(ctx context.Context, userID, partnerID int64, limit int) ([]model.Message, error) {
	const q = `
		SELECT id, sender_id, recipient_id, body, read_at, created_at
		FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at ASC, id ASC
		LIMIT $3`
	rows, err := r.db.QueryContext(ctx, q, userID, partnerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repo) Conversations(ctx context.Context, userID int64) ([]model.Conversation, error) {
	// Latest message per partner plus unread count.
	const q = `
		SELECT DISTINCT ON (partner_id)
		       partner_id,
		       COALESCE(u.first_name || ' ' || u.last_name, '') AS partner_name,
		       m.body,
		       m.created_at,
		       (SELECT COUNT(*) FROM messages
		        WHERE recipient_id = $1 AND sender_id = partner_id AND read_at IS NULL) AS unread
		FROM (
			SELECT *,
			       CASE WHEN sender_id = $1 THEN recipient_id ELSE sender_id END AS partner_id
			FROM messages
			WHERE sender_id = $1 OR recipient_id = $1
		) m
		JOIN users u ON u.id = m.partner_id
		ORDER BY partner_id, m.created_at DESC, m.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Conversation
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(&c.PartnerID, &c.PartnerName, &c.LastBody, &c.LastAt, &c.Unread); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) MarkRead(ctx context.Context, userID, partnerID int64) error {
	const q = `
		UPDATE messages
		SET read_at = NOW()
		WHERE recipient_id = $1 AND sender_id = $2 AND read_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, userID, partnerID)
	return err
}
