// Package auth is the client for the session endpoints of the backend.
// The backend owns the Google OAuth handshake and the session cookie; this
// client only forwards that cookie and reads the probe result.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/metrics"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/storage"
)

const service = "auth"

// SessionCookie is the backend's session cookie, forwarded on every
// authenticated call.
const SessionCookie = "session"

type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    metrics.Recorder
}

func New(baseURL string, httpClient *http.Client, rec metrics.Recorder) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		metrics:    rec,
	}
}

// LoginURL is where the browser is sent to start the Google OAuth flow.
func (c *Client) LoginURL() string {
	return c.baseURL + "/v1/auth/google?provider=google"
}

// Me probes the backend session. sessionCookie is the raw cookie value taken
// from the browser request; an invalid or expired one yields
// storage.ErrUnauthenticated.
func (c *Client) Me(ctx context.Context, sessionCookie string) (*models.User, error) {
	const op = "clients.auth.Me"

	body, err := c.get(ctx, "/v1/auth/me", sessionCookie)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", op, err)
	}

	return &user, nil
}

// Callback completes the OAuth code exchange on the backend. The backend sets
// the session cookie on its response; the new cookie value is returned so the
// caller can store it against the local session.
func (c *Client) Callback(ctx context.Context, rawQuery string) (string, error) {
	const op = "clients.auth.Callback"

	path := "/v1/auth/google/callback"
	if rawQuery != "" {
		path += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamError(service)
		return "", fmt.Errorf("%s: %w: %w", op, storage.ErrUpstream, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	c.metrics.RecordUpstreamRequest(service, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: %w: status %d", op, storage.ErrUpstream, resp.StatusCode)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookie {
			return cookie.Value, nil
		}
	}

	return "", fmt.Errorf("%s: no session cookie in callback response", op)
}

// Logout invalidates the backend session.
func (c *Client) Logout(ctx context.Context, sessionCookie string) error {
	const op = "clients.auth.Logout"

	if _, err := c.get(ctx, "/v1/auth/logout?provider=google", sessionCookie); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) get(ctx context.Context, path, sessionCookie string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if sessionCookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sessionCookie})
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamError(service)
		return nil, fmt.Errorf("%w: %w", storage.ErrUpstream, err)
	}
	defer resp.Body.Close()

	c.metrics.RecordUpstreamRequest(service, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, storage.ErrUnauthenticated
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", storage.ErrUpstream, resp.StatusCode)
	}

	return body, nil
}
