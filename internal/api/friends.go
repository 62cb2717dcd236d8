package api

import (
	"context"
	"fmt"

	"waveline/pkg/models"
)

// ListFriendships retrieves the current user's friendships, pending included
func (c *Client) ListFriendships(ctx context.Context) ([]models.Friendship, error) {
	resp, err := c.doJSON(ctx, "GET", "/users/friendships/", nil)
	if err != nil {
		return nil, err
	}

	var result models.PaginatedResponse[models.Friendship]
	if err := decodeAPIResponse(resp, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// SendFriendRequest opens a pending friendship toward userID
func (c *Client) SendFriendRequest(ctx context.Context, userID string) (*models.Friendship, error) {
	resp, err := c.doJSON(ctx, "POST", "/users/friendships/", models.FriendRequestBody{To: userID})
	if err != nil {
		return nil, err
	}

	var created models.Friendship
	if err := decodeAPIResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AcceptFriendRequest accepts a pending request
func (c *Client) AcceptFriendRequest(ctx context.Context, friendshipID string) error {
	path := fmt.Sprintf("/users/friendships/%s/accept/", friendshipID)
	resp, err := c.doJSON(ctx, "POST", path, nil)
	if err != nil {
		return err
	}
	return decodeAPIResponse(resp, nil)
}

// DeclineFriendRequest declines a pending request
func (c *Client) DeclineFriendRequest(ctx context.Context, friendshipID string) error {
	path := fmt.Sprintf("/users/friendships/%s/decline/", friendshipID)
	resp, err := c.doJSON(ctx, "POST", path, nil)
	if err != nil {
		return err
	}
	return decodeAPIResponse(resp, nil)
}
