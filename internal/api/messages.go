package api

import (
	"context"
	"net/url"

	"waveline/pkg/models"
)

// Messaging is a stub surface: list conversations, list one conversation,
// send a plain-text message. No receipts, no attachments.

// ListConversations retrieves conversation heads
func (c *Client) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	resp, err := c.doJSON(ctx, "GET", "/messages/conversations/", nil)
	if err != nil {
		return nil, err
	}

	var result models.PaginatedResponse[models.Conversation]
	if err := decodeAPIResponse(resp, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// ListMessages retrieves the history with one peer
func (c *Client) ListMessages(ctx context.Context, peerID string) ([]models.DirectMessage, error) {
	path := "/messages/?peer=" + url.QueryEscape(peerID)
	resp, err := c.doJSON(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var result models.PaginatedResponse[models.DirectMessage]
	if err := decodeAPIResponse(resp, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// SendMessage sends a plain-text message to peerID
func (c *Client) SendMessage(ctx context.Context, peerID, content string) (*models.DirectMessage, error) {
	resp, err := c.doJSON(ctx, "POST", "/messages/", map[string]string{
		"to":      peerID,
		"content": content,
	})
	if err != nil {
		return nil, err
	}

	var sent models.DirectMessage
	if err := decodeAPIResponse(resp, &sent); err != nil {
		return nil, err
	}
	return &sent, nil
}
