package model

import "time"

type Message struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id"`
	Body        string    `json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Conversation is the latest message exchanged with a partner, used by
// the inbox listing.
type Conversation struct {
	PartnerID   int64     `json:"partner_id"`
	PartnerName string    `json:"partner_name"`
	LastBody    string    `json:"last_body"`
	LastAt      time.Time `json:"last_at"`
	Unread      int64     `json:"unread"`
}
