package api

import (
	"context"
	"encoding/json"
	"fmt"

	"waveline/pkg/models"
)

// Login authenticates and stores the returned token pair
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	body, err := json.Marshal(models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	resp, err := c.doRequest(ctx, "POST", "/users/auth/login/", "application/json", body, false)
	if err != nil {
		return nil, err
	}

	var loginResp models.LoginResponse
	if err := decodeAPIResponse(resp, &loginResp); err != nil {
		return nil, err
	}
	if err := c.tokens.SetTokens(loginResp.Tokens); err != nil {
		return nil, fmt.Errorf("store tokens: %w", err)
	}
	return &loginResp, nil
}

// Register creates an account and logs straight in
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	if err := models.ValidateRegisterRequest(&req); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.doRequest(ctx, "POST", "/users/auth/register/", "application/json", body, false)
	if err != nil {
		return nil, err
	}

	var loginResp models.LoginResponse
	if err := decodeAPIResponse(resp, &loginResp); err != nil {
		return nil, err
	}
	if err := c.tokens.SetTokens(loginResp.Tokens); err != nil {
		return nil, fmt.Errorf("store tokens: %w", err)
	}
	return &loginResp, nil
}

// VerifyToken asks the server whether the stored access token is still valid
func (c *Client) VerifyToken(ctx context.Context) error {
	pair, err := c.tokens.Tokens()
	if err != nil {
		return err
	}
	body, _ := json.Marshal(map[string]string{"token": pair.Access})
	resp, err := c.doRequest(ctx, "POST", "/users/auth/token/verify/", "application/json", body, false)
	if err != nil {
		return err
	}
	return decodeAPIResponse(resp, nil)
}

// Logout clears the local session. There is no server-side call; tokens
// simply stop being presented.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}
