package api

import (
	"context"
	"fmt"

	"waveline/pkg/models"
)

// ListLiveStreams retrieves streams currently live
func (c *Client) ListLiveStreams(ctx context.Context) ([]models.Stream, error) {
	resp, err := c.doJSON(ctx, "GET", "/livestreams/live/", nil)
	if err != nil {
		return nil, err
	}

	var result models.PaginatedResponse[models.Stream]
	if err := decodeAPIResponse(resp, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetStream retrieves one stream by id
func (c *Client) GetStream(ctx context.Context, streamID string) (*models.Stream, error) {
	path := fmt.Sprintf("/livestreams/%s/", streamID)
	resp, err := c.doJSON(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var stream models.Stream
	if err := decodeAPIResponse(resp, &stream); err != nil {
		return nil, err
	}
	return &stream, nil
}

// CreateStream registers a new stream in scheduled state
func (c *Client) CreateStream(ctx context.Context, title string) (*models.Stream, error) {
	resp, err := c.doJSON(ctx, "POST", "/livestreams/", models.CreateStreamRequest{Title: title})
	if err != nil {
		return nil, err
	}

	var created models.Stream
	if err := decodeAPIResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// StartStream moves a scheduled stream live
func (c *Client) StartStream(ctx context.Context, streamID string) (*models.Stream, error) {
	return c.streamTransition(ctx, streamID, "start")
}

// EndStream ends a live stream
func (c *Client) EndStream(ctx context.Context, streamID string) (*models.Stream, error) {
	return c.streamTransition(ctx, streamID, "end")
}

func (c *Client) streamTransition(ctx context.Context, streamID, action string) (*models.Stream, error) {
	path := fmt.Sprintf("/livestreams/%s/%s/", streamID, action)
	resp, err := c.doJSON(ctx, "POST", path, nil)
	if err != nil {
		return nil, err
	}

	var stream models.Stream
	if err := decodeAPIResponse(resp, &stream); err != nil {
		return nil, err
	}
	return &stream, nil
}
