package api

import (
	"context"
	"fmt"
	"net/url"

	"waveline/pkg/models"
)

// ListComments retrieves all comments for a post. The server may return a
// flat list with parent pointers, nested replies per root, or both; the
// thread store normalizes on load.
func (c *Client) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	path := "/comments/comments/?post=" + url.QueryEscape(postID)
	resp, err := c.doJSON(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var result models.CommentListResponse
	if err := decodeAPIResponse(resp, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// CreateComment posts a new comment or reply as multipart form data
func (c *Client) CreateComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fields := map[string]string{
		"post":    req.Post,
		"parent":  req.Parent,
		"content": req.Content,
	}
	contentType, body, err := encodeMultipart(fields, req.Attachments)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, "POST", "/comments/comments/", contentType, body, true)
	if err != nil {
		return nil, err
	}

	var created models.Comment
	if err := decodeAPIResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateComment replaces a comment's text
func (c *Client) UpdateComment(ctx context.Context, commentID, content string) (*models.Comment, error) {
	path := fmt.Sprintf("/comments/comments/%s/", commentID)
	resp, err := c.doJSON(ctx, "PUT", path, map[string]string{"content": content})
	if err != nil {
		return nil, err
	}

	var updated models.Comment
	if err := decodeAPIResponse(resp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteComment removes a comment
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	path := fmt.Sprintf("/comments/comments/%s/", commentID)
	resp, err := c.doJSON(ctx, "DELETE", path, nil)
	if err != nil {
		return err
	}
	return discardResponse(resp)
}
