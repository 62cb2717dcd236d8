package models

import "time"

// StreamStatus tracks a livestream's lifecycle
type StreamStatus string

const (
	StreamScheduled StreamStatus = "scheduled"
	StreamLive      StreamStatus = "live"
	StreamEnded     StreamStatus = "ended"
)

// Stream represents a livestream as seen by a viewer
type Stream struct {
	ID          string       `json:"id"`
	Host        UserSummary  `json:"host"`
	Title       string       `json:"title"`
	Status      StreamStatus `json:"status"`
	ViewerCount int          `json:"viewer_count"`
	PlaybackURL string       `json:"playback_url,omitempty"`
	StartedAt   *time.Time   `json:"started_at,omitempty"`
	EndedAt     *time.Time   `json:"ended_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// CreateStreamRequest
type CreateStreamRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

// StreamEvent is a JSON payload from the per-stream WebSocket channel
type StreamEvent struct {
	Type      string    `json:"type"` // "chat", "viewer_count", "started", "ended"
	UserID    string    `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	Content   string    `json:"content,omitempty"`
	Viewers   int       `json:"viewers,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notification is a JSON payload from the per-user notifications channel
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // "reaction", "comment", "friend_request", "stream_live"
	Actor     string    `json:"actor,omitempty"`
	Target    string    `json:"target,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
