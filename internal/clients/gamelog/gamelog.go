// Package gamelog is the per-user client for the game-log API. Every call
// carries the "Authorization: UserID <id>" header the backend keys records by.
package gamelog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/metrics"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/shelf"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/storage"
)

const service = "gamelog"

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

// Entry is one game-log record for a (user, game) pair.
type Entry struct {
	GameID    int64       `json:"game_id"`
	Shelf     shelf.Shelf `json:"shelf"`
	Rating    int         `json:"rating,omitempty"`
	UpdatedAt string      `json:"updated_at,omitempty"`
}

// Get fetches the log entry for one game. A game the user never logged comes
// back with shelf NA, which is absence, not a stored state.
func (c *Client) Get(ctx context.Context, userID string, gameID int64) (*Entry, error) {
	const op = "clients.gamelog.Get"

	q := url.Values{}
	q.Set("game_id", strconv.FormatInt(gameID, 10))

	body, err := c.do(ctx, http.MethodGet, "/v1/gameLog", q, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var entry Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	if entry.Shelf == "" {
		entry.Shelf = shelf.None
	}

	return &entry, nil
}

// Shelf lists the games on one shelf. Only the three active codes are valid.
func (c *Client) Shelf(ctx context.Context, userID string, s shelf.Shelf) ([]models.Game, error) {
	const op = "clients.gamelog.Shelf"

	if s == shelf.None {
		return nil, fmt.Errorf("%s: %w", op, shelf.ErrUnknownShelf)
	}

	q := url.Values{}
	q.Set("shelf", string(s))

	body, err := c.do(ctx, http.MethodGet, "/v1/games/gameLog", q, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var games []models.Game
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", op, err)
	}

	return games, nil
}

// Upsert records a shelf assignment (and rating) for one game.
func (c *Client) Upsert(ctx context.Context, userID string, gameID int64, s shelf.Shelf, rating int) error {
	const op = "clients.gamelog.Upsert"

	payload, err := json.Marshal(Entry{GameID: gameID, Shelf: s, Rating: rating})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := c.do(ctx, http.MethodPost, "/v1/gameLog", nil, payload, userID); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUpdateFailed, err)
	}

	return nil
}

// Delete removes the log entry, the wire form of moving a game to None.
func (c *Client) Delete(ctx context.Context, userID string, gameID int64) error {
	const op = "clients.gamelog.Delete"

	q := url.Values{}
	q.Set("game_id", strconv.FormatInt(gameID, 10))

	if _, err := c.do(ctx, http.MethodDelete, "/v1/gameLog", q, nil, userID); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrDeleteFailed, err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte, userID string) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "UserID "+userID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
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
	case resp.StatusCode == http.StatusNotFound:
		return nil, storage.ErrNotFound
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d", storage.ErrUpstream, resp.StatusCode)
	}

	return body, nil
}
