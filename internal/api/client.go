// Package api is the REST client for the Waveline backend. All state lives
// server-side; this client attaches the bearer token, refreshes it once on
// 401, and decodes the response envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"waveline/pkg/logger"
	"waveline/pkg/models"
)

// TokenStore is the slice of the session store the client needs
type TokenStore interface {
	Tokens() (models.TokenPair, error)
	SetTokens(models.TokenPair) error
	Clear() error
}

// Client handles HTTP API communication
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	limiter    *rate.Limiter

	// refreshMu serializes token refresh. Concurrent 401s block here and
	// re-read the store, so only the first caller hits the refresh endpoint.
	refreshMu sync.Mutex
}

// NewClient creates a new API client backed by the given token store
func NewClient(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
		// Generous ceiling; exists to keep a runaway render loop from
		// hammering the API, not to shape normal traffic.
		limiter: rate.NewLimiter(rate.Limit(20), 40),
	}
}

// doRequest performs a single HTTP request with common handling. bodyType is
// empty for no body, otherwise the Content-Type of bodyReader.
func (c *Client) doRequest(ctx context.Context, method, path, bodyType string, body []byte, authenticated bool) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if bodyType != "" {
		req.Header.Set("Content-Type", bodyType)
	}

	var access string
	if authenticated {
		pair, err := c.tokens.Tokens()
		if err != nil {
			return nil, err
		}
		access = pair.Access
		req.Header.Set("Authorization", "Bearer "+access)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	logger.HTTP(method, path, resp.StatusCode, int(time.Since(start).Milliseconds()))

	// One silent refresh, one retry. Never loops: the retried request is
	// built below and its 401 surfaces to the caller.
	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		resp.Body.Close()
		if err := c.refreshAccessToken(ctx, access); err != nil {
			return nil, err
		}
		pair, err := c.tokens.Tokens()
		if err != nil {
			return nil, err
		}
		retry, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create retry request: %w", err)
		}
		if bodyType != "" {
			retry.Header.Set("Content-Type", bodyType)
		}
		retry.Header.Set("Authorization", "Bearer "+pair.Access)
		resp, err = c.httpClient.Do(retry)
		if err != nil {
			return nil, fmt.Errorf("retry failed: %w", err)
		}
	}

	return resp, nil
}

// doJSON marshals body (when non-nil) and issues an authenticated request
func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var raw []byte
	bodyType := ""
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyType = "application/json"
	}
	return c.doRequest(ctx, method, path, bodyType, raw, true)
}

// refreshAccessToken swaps the refresh token for a new pair. staleAccess is
// the token that just got a 401; if the store already holds a different one,
// a sibling request refreshed first and this caller reuses it.
func (c *Client) refreshAccessToken(ctx context.Context, staleAccess string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	pair, err := c.tokens.Tokens()
	if err != nil {
		return err
	}
	if pair.Access != staleAccess {
		return nil
	}
	if pair.Refresh == "" {
		c.tokens.Clear()
		return models.ErrSessionExpired
	}

	body, _ := json.Marshal(map[string]string{"refresh": pair.Refresh})
	resp, err := c.doRequest(ctx, "POST", "/users/auth/token/refresh/", "application/json", body, false)
	if err != nil {
		return fmt.Errorf("token refresh: %w", err)
	}

	var refreshed models.TokenPair
	if err := decodeAPIResponse(resp, &refreshed); err != nil {
		c.tokens.Clear()
		logger.Warn("token refresh rejected, session cleared")
		return models.ErrSessionExpired
	}
	if refreshed.Refresh == "" {
		refreshed.Refresh = pair.Refresh
	}
	return c.tokens.SetTokens(refreshed)
}

// AccessTokenExpiresSoon inspects the stored access token's exp claim
// without verifying the signature (the server verifies; the client only
// schedules). True when the token expires within the window or is missing.
func (c *Client) AccessTokenExpiresSoon(window time.Duration) bool {
	pair, err := c.tokens.Tokens()
	if err != nil || pair.Access == "" {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(pair.Access, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return time.Until(exp.Time) < window
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// decodeAPIResponse decodes the envelope and unmarshals data into target
func decodeAPIResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return &models.APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !envelope.Success {
		if envelope.Error != "" {
			return fmt.Errorf("%s", envelope.Error)
		}
		return fmt.Errorf("request failed")
	}
	if target != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, target); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// discardResponse drains and checks status for endpoints with no payload
func discardResponse(resp *http.Response) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return &models.APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
