package api

import (
	"context"
	"fmt"

	"waveline/pkg/models"
)

// ListStories retrieves the active stories rail
func (c *Client) ListStories(ctx context.Context) ([]models.Story, error) {
	resp, err := c.doJSON(ctx, "GET", "/stories/", nil)
	if err != nil {
		return nil, err
	}

	var result models.PaginatedResponse[models.Story]
	if err := decodeAPIResponse(resp, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// CreateStory publishes a story with exactly one media item
func (c *Client) CreateStory(ctx context.Context, req models.CreateStoryRequest) (*models.Story, error) {
	contentType, body, err := encodeMultipart(
		map[string]string{"caption": req.Caption},
		[]models.Upload{req.Media})
	if err != nil {
		return nil, err
	}
	resp, err := c.doRequest(ctx, "POST", "/stories/", contentType, body, true)
	if err != nil {
		return nil, err
	}

	var created models.Story
	if err := decodeAPIResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteStory removes one of the current user's stories
func (c *Client) DeleteStory(ctx context.Context, storyID string) error {
	path := fmt.Sprintf("/stories/%s/", storyID)
	resp, err := c.doJSON(ctx, "DELETE", path, nil)
	if err != nil {
		return err
	}
	return discardResponse(resp)
}
