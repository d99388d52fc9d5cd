package verification

import (
	"context"
	"testing"
	"time"

	"voom/model"

	"github.com/stretchr/testify/require"
)

type repoMock struct {
	docs map[int64]*model.VerificationDocument
}

func newRepoMock() *repoMock {
	return &repoMock{docs: map[int64]*model.VerificationDocument{}}
}

func (m *repoMock) Upsert(ctx context.Context, d *model.VerificationDocument) error {
	d.ID = int64(len(m.docs) + 1)
	d.Status = model.VerificationPending
	m.docs[d.ID] = d
	return nil
}
func (m *repoMock) ByID(ctx context.Context, id int64) (*model.VerificationDocument, error) {
	return m.docs[id], nil
}
func (m *repoMock) ByUser(ctx context.Context, userID int64) ([]model.VerificationDocument, error) {
	var out []model.VerificationDocument
	for _, d := range m.docs {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}
func (m *repoMock) SetStatus(ctx context.Context, id int64, status model.VerificationStatus, reviewedAt *time.Time) (*model.VerificationDocument, error) {
	d := m.docs[id]
	if d == nil {
		return nil, nil
	}
	d.Status = status
	if reviewedAt != nil {
		d.ReviewedAt = reviewedAt
	}
	return d, nil
}

type usersMock struct {
	verified map[int64]bool
}

func (m *usersMock) SetVerified(ctx context.Context, id int64, v bool) error {
	if m.verified == nil {
		m.verified = map[int64]bool{}
	}
	m.verified[id] = v
	return nil
}

func TestSubmit_StartsPending(t *testing.T) {
	s := New(newRepoMock(), &usersMock{})
	d, err := s.Submit(context.Background(), 7, "drivers_license", "https://cdn/x.jpg")
	require.NoError(t, err)
	require.Equal(t, model.VerificationPending, d.Status)
}

func TestSubmit_BadInput(t *testing.T) {
	s := New(newRepoMock(), &usersMock{})
	_, err := s.Submit(context.Background(), 7, "", "https://cdn/x.jpg")
	require.Equal(t, ErrBadInput, Code(err))
	_, err = s.Submit(context.Background(), 7, "drivers_license", "")
	require.Equal(t, ErrBadInput, Code(err))
}

func TestStatusMachine(t *testing.T) {
	r := newRepoMock()
	u := &usersMock{}
	s := New(r, u)

	d, err := s.Submit(context.Background(), 7, "drivers_license", "https://cdn/x.jpg")
	require.NoError(t, err)

	// review before the upload completes is illegal
	_, err = s.Review(context.Background(), d.ID, true)
	require.Equal(t, ErrBadTransition, Code(err))

	d2, err := s.MarkCompleted(context.Background(), 7, d.ID)
	require.NoError(t, err)
	require.Equal(t, model.VerificationCompleted, d2.Status)

	// completing twice is illegal
	_, err = s.MarkCompleted(context.Background(), 7, d.ID)
	require.Equal(t, ErrBadTransition, Code(err))

	d3, err := s.Review(context.Background(), d.ID, true)
	require.NoError(t, err)
	require.Equal(t, model.VerificationVerified, d3.Status)
	require.NotNil(t, d3.ReviewedAt)
	require.True(t, u.verified[7], "verified document flips the user flag")

	// terminal: no further review
	_, err = s.Review(context.Background(), d.ID, false)
	require.Equal(t, ErrBadTransition, Code(err))
}

func TestMarkCompleted_OwnerOnly(t *testing.T) {
	s := New(newRepoMock(), &usersMock{})

	d, err := s.Submit(context.Background(), 7, "drivers_license", "https://cdn/x.jpg")
	require.NoError(t, err)

	// someone else's document id reads as not found
	_, err = s.MarkCompleted(context.Background(), 8, d.ID)
	require.Equal(t, ErrNotFound, Code(err))

	d2, err := s.MarkCompleted(context.Background(), 7, d.ID)
	require.NoError(t, err)
	require.Equal(t, model.VerificationCompleted, d2.Status)
}

func TestReview_Reject(t *testing.T) {
	r := newRepoMock()
	u := &usersMock{}
	s := New(r, u)

	d, _ := s.Submit(context.Background(), 7, "passport", "https://cdn/p.jpg")
	_, err := s.MarkCompleted(context.Background(), 7, d.ID)
	require.NoError(t, err)

	d2, err := s.Review(context.Background(), d.ID, false)
	require.NoError(t, err)
	require.Equal(t, model.VerificationFailed, d2.Status)
	require.False(t, u.verified[7])
}
