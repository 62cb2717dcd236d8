package models

import (
	"strings"
	"time"
)

// Comment represents a single entry in a post's discussion thread.
// Parent is nil for top-level comments; Replies is populated by the server
// for root entries only.
type Comment struct {
	ID          string          `json:"id"`
	Parent      *string         `json:"parent,omitempty"`
	Post        string          `json:"post"`
	Author      UserSummary     `json:"author"`
	Content     string          `json:"content"`
	Attachments []Attachment    `json:"attachments,omitempty"`
	Reactions   ReactionSummary `json:"reactions"`
	Replies     []Comment       `json:"replies,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	EditedAt    *time.Time      `json:"edited_at,omitempty"`
}

// IsTopLevel reports whether the comment belongs in the root list
func (c *Comment) IsTopLevel() bool {
	return c.Parent == nil || *c.Parent == ""
}

// CreateCommentRequest - multipart on the wire; Parent empty for top-level
type CreateCommentRequest struct {
	Post        string
	Parent      string
	Content     string
	Attachments []Upload
}

// Validate enforces the composer precondition: text after trimming or at
// least one attachment.
func (r *CreateCommentRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" && len(r.Attachments) == 0 {
		return ErrEmptyComment
	}
	if len(r.Content) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// CommentListResponse is the payload of GET /comments/comments/?post=<id>
type CommentListResponse struct {
	Data    []Comment `json:"data"`
	Total   int       `json:"total"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
	HasMore bool      `json:"has_more"`
}

const MaxCommentLength = 5000

// MaxReplyDepth is the deepest level at which the reply composer is offered.
// The server accepts deeper nesting; this is a client rule only.
const MaxReplyDepth = 4
