package models

import "time"

// DirectMessage is a single message in a conversation. The messaging surface
// is a stub: list and send only, no read receipts or typing indicators.
type DirectMessage struct {
	ID        string      `json:"id"`
	From      UserSummary `json:"from_user"`
	To        UserSummary `json:"to_user"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// Conversation groups messages with one peer
type Conversation struct {
	Peer        UserSummary    `json:"peer"`
	LastMessage *DirectMessage `json:"last_message,omitempty"`
	Unread      int            `json:"unread"`
}
