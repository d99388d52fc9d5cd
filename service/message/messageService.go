package message

import (
	"context"
	"errors"
	"strings"

	"voom/model"
	msgrepo "voom/repository/message"
)

var (
	ErrEmptyBody        = errors.New("empty message body")
	ErrSelfMessage      = errors.New("cannot message yourself")
	ErrUnknownRecipient = errors.New("unknown recipient")
)

const threadLimit = 200

type Users interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

// Notifier pushes a freshly stored message to the recipient's live
// connection, if any. Delivery is best-effort.
type Notifier interface {
	Notify(userID int64, m *model.Message)
}

type Service interface {
	Send(ctx context.Context, senderID, recipientID int64, body string) (*model.Message, error)
	Thread(ctx context.Context, userID, partnerID int64) ([]model.Message, error)
	Conversations(ctx context.Context, userID int64) ([]model.Conversation, error)
}

type service struct {
	r        msgrepo.Repo
	users    Users
	notifier Notifier
}

func New(r msgrepo.Repo, users Users, notifier Notifier) Service {
	return &service{r: r, users: users, notifier: notifier}
}

func (s *service) Send(ctx context.Context, senderID, recipientID int64, body string) (*model.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	if senderID == recipientID {
		return nil, ErrSelfMessage
	}
	u, err := s.users.ByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnknownRecipient
	}

	m := &model.Message{SenderID: senderID, RecipientID: recipientID, Body: body}
	if err := s.r.Insert(ctx, m); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Notify(recipientID, m)
	}
	return m, nil
}

// Thread returns the exchange between user and partner and marks the
// partner's messages as read.
func (s *service) Thread(ctx context.Context, userID, partnerID int64) ([]model.Message, error) {
	msgs, err := s.r.Thread(ctx, userID, partnerID, threadLimit)
	if err != nil {
		return nil, err
	}
	if err := s.r.MarkRead(ctx, userID, partnerID); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *service) Conversations(ctx context.Context, userID int64) ([]model.Conversation, error) {
	return s.r.Conversations(ctx, userID)
}
