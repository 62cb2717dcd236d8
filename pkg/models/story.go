package models

import "time"

// Story is a short-lived media post shown in the stories rail
type Story struct {
	ID        string      `json:"id"`
	Author    UserSummary `json:"author"`
	Media     Attachment  `json:"media"`
	Caption   string      `json:"caption,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Expired reports whether the story is past its lifetime at t
func (s *Story) Expired(t time.Time) bool {
	return !s.ExpiresAt.IsZero() && t.After(s.ExpiresAt)
}

// CreateStoryRequest - multipart, exactly one media item
type CreateStoryRequest struct {
	Caption string
	Media   Upload
}
