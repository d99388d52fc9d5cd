// model/verification.go
package model

import "time"

type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "pending"
	VerificationCompleted VerificationStatus = "completed"
	VerificationVerified  VerificationStatus = "verified"
	VerificationFailed    VerificationStatus = "failed"
)

// VerificationDocument is one row per (user, document type). Status
// moves pending -> completed -> verified|failed.
type VerificationDocument struct {
	ID           int64              `json:"id"`
	UserID       int64              `json:"user_id"`
	DocumentType string             `json:"document_type"`
	DocumentURL  string             `json:"document_url"`
	Status       VerificationStatus `json:"status"`
	ReviewedAt   *time.Time         `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}
