package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrKeyNotFound is returned when an admin operation references a key
// the server does not know.
var ErrKeyNotFound = errors.New("API key not found on server")

// KeySummary is one redacted entry from the server's key listing.
type KeySummary struct {
	Prefix    string    `json:"prefix"`
	CreatedAt time.Time `json:"created_at"`
	IsAdmin   bool      `json:"is_admin"`
	IsActive  bool      `json:"is_active"`
	Usage     KeyUsage  `json:"usage"`
}

// KeyUsage mirrors the server's per-key usage block.
type KeyUsage struct {
	TotalRequests          int64      `json:"total_requests"`
	LastUsed               *time.Time `json:"last_used"`
	TotalProcessingSeconds float64    `json:"total_processing_time"`
}

// CreatedKey is the response to a key creation request.
type CreatedKey struct {
	APIKey  string `json:"api_key"`
	IsAdmin bool   `json:"is_admin"`
}

// CreateKey mints a new API key. Requires an admin key on the client.
func (c *Client) CreateKey(ctx context.Context, isAdmin bool) (CreatedKey, error) {
	var created CreatedKey
	err := c.postJSON(ctx, "/api/admin/keys",
		map[string]bool{"is_admin": isAdmin}, http.StatusCreated, &created)
	return created, err
}

// ListKeys fetches the redacted key listing. Requires an admin key.
func (c *Client) ListKeys(ctx context.Context) ([]KeySummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/admin/keys", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list request returned %d: %s",
			resp.StatusCode, readErrorMessage(resp.Body))
	}

	var payload struct {
		Keys []KeySummary `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode key listing: %w", err)
	}
	return payload.Keys, nil
}

// ToggleKey enables or disables an existing key. Requires an admin key.
func (c *Client) ToggleKey(ctx context.Context, key string, active bool) error {
	return c.postJSON(ctx, "/api/admin/keys/toggle",
		map[string]interface{}{"key": key, "active": active}, http.StatusOK, nil)
}

// postJSON sends a JSON body and decodes the response into out when
// out is non-nil.
func (c *Client) postJSON(ctx context.Context, path string, body interface{}, wantStatus int, out interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrKeyNotFound
	}
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("request returned %d: %s",
			resp.StatusCode, readErrorMessage(resp.Body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
