package api

import (
	"context"

	"waveline/pkg/models"
)

// GetSettings fetches the server-side preference bag
func (c *Client) GetSettings(ctx context.Context) (*models.Settings, error) {
	resp, err := c.doJSON(ctx, "GET", "/settings/", nil)
	if err != nil {
		return nil, err
	}

	var settings models.Settings
	if err := decodeAPIResponse(resp, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings patches only the changed fields and returns the full bag
func (c *Client) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (*models.Settings, error) {
	resp, err := c.doJSON(ctx, "PATCH", "/settings/", patch)
	if err != nil {
		return nil, err
	}

	var settings models.Settings
	if err := decodeAPIResponse(resp, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
