package verification

import (
	"context"
	"errors"
	"time"

	"voom/model"
	verifrepo "voom/repository/verification"
)

type ErrCode string

const (
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrBadTransition ErrCode = "BAD_TRANSITION"
	ErrBadInput      ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Users interface {
	SetVerified(ctx context.Context, id int64, verified bool) error
}

type Service interface {
	// Submit records an uploaded document for review; one row per
	// (user, document type), re-submission restarts at pending.
	Submit(ctx context.Context, userID int64, docType, docURL string) (*model.VerificationDocument, error)

	// MarkCompleted acknowledges the upload finished processing
	// (pending -> completed). Only the document's owner may complete
	// it; someone else's id reads as not found.
	MarkCompleted(ctx context.Context, userID, docID int64) (*model.VerificationDocument, error)

	// Review settles a completed document as verified or failed; a
	// verified document flips the user's verified flag.
	Review(ctx context.Context, docID int64, approve bool) (*model.VerificationDocument, error)

	Status(ctx context.Context, userID int64) ([]model.VerificationDocument, error)
}

type service struct {
	r     verifrepo.Repo
	users Users
	now   func() time.Time
}

func New(r verifrepo.Repo, users Users) Service {
	return &service{r: r, users: users, now: time.Now}
}

func (s *service) Submit(ctx context.Context, userID int64, docType, docURL string) (*model.VerificationDocument, error) {
	if docType == "" || docURL == "" {
		return nil, makeErr(ErrBadInput)
	}
	d := &model.VerificationDocument{UserID: userID, DocumentType: docType, DocumentURL: docURL}
	if err := s.r.Upsert(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) MarkCompleted(ctx context.Context, userID, docID int64) (*model.VerificationDocument, error) {
	d, err := s.r.ByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if d == nil || d.UserID != userID {
		return nil, makeErr(ErrNotFound)
	}
	if d.Status != model.VerificationPending {
		return nil, makeErr(ErrBadTransition)
	}
	return s.r.SetStatus(ctx, docID, model.VerificationCompleted, nil)
}

func (s *service) Review(ctx context.Context, docID int64, approve bool) (*model.VerificationDocument, error) {
	d, err := s.r.ByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, makeErr(ErrNotFound)
	}
	if d.Status != model.VerificationCompleted {
		return nil, makeErr(ErrBadTransition)
	}

	status := model.VerificationFailed
	if approve {
		status = model.VerificationVerified
	}
	now := s.now()
	updated, err := s.r.SetStatus(ctx, docID, status, &now)
	if err != nil {
		return nil, err
	}
	if approve {
		if err := s.users.SetVerified(ctx, d.UserID, true); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

func (s *service) Status(ctx context.Context, userID int64) ([]model.VerificationDocument, error) {
	return s.r.ByUser(ctx, userID)
}
