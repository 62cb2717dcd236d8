package models

import (
	"strings"
	"time"
)

// Post represents a feed entry
type Post struct {
	ID           string          `json:"id"`
	Author       UserSummary     `json:"author"`
	Content      string          `json:"content"`
	Attachments  []Attachment    `json:"attachments,omitempty"`
	Reactions    ReactionSummary `json:"reactions"`
	CommentCount int             `json:"comment_count"`
	CreatedAt    time.Time       `json:"created_at"`
	EditedAt     *time.Time      `json:"edited_at,omitempty"`
}

// CreatePostRequest - multipart on the wire, same shape as comments
type CreatePostRequest struct {
	Content     string
	Attachments []Upload
}

// Validate mirrors the comment composer rule
func (r *CreatePostRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" && len(r.Attachments) == 0 {
		return ErrEmptyPost
	}
	return nil
}

// PostListResponse is the payload of GET /posts/posts/
type PostListResponse struct {
	Data    []Post `json:"data"`
	Total   int    `json:"total"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
	HasMore bool   `json:"has_more"`
}
