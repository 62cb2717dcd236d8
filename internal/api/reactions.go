package api

import (
	"context"
	"net/url"

	"waveline/pkg/models"
)

// ToggleReaction flips the current user's reaction on a post or comment.
// The server decides whether this creates, removes or updates; the caller
// applies whatever action comes back.
func (c *Client) ToggleReaction(ctx context.Context, req models.ToggleReactionRequest) (*models.ToggleReactionResponse, error) {
	resp, err := c.doJSON(ctx, "POST", "/reactions/reactions/toggle/", req)
	if err != nil {
		return nil, err
	}

	var result models.ToggleReactionResponse
	if err := decodeAPIResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPostReactions fetches the known-good summary for a post
func (c *Client) ListPostReactions(ctx context.Context, postID string) (*models.ReactionSummary, error) {
	return c.listReactions(ctx, "post", postID)
}

// ListCommentReactions fetches the known-good summary for a comment
func (c *Client) ListCommentReactions(ctx context.Context, commentID string) (*models.ReactionSummary, error) {
	return c.listReactions(ctx, "comment", commentID)
}

func (c *Client) listReactions(ctx context.Context, targetType, targetID string) (*models.ReactionSummary, error) {
	path := "/reactions/reactions/?" + targetType + "=" + url.QueryEscape(targetID)
	resp, err := c.doJSON(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var summary models.ReactionSummary
	if err := decodeAPIResponse(resp, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
