// Package catalog is the read-only client for the game catalog API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/metrics"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/storage"
)

const service = "catalog"

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    metrics.Recorder
}

// New creates a catalog client. ratePerSec caps outgoing requests; zero
// disables the limiter. A nil httpClient falls back to http.DefaultClient.
func New(baseURL string, httpClient *http.Client, ratePerSec float64, burst int, rec metrics.Recorder) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if rec == nil {
		rec = metrics.Nop{}
	}

	var limiter *rate.Limiter
	if ratePerSec > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    limiter,
		metrics:    rec,
	}
}

type genresResponse struct {
	Data []models.Genre `json:"data"`
}

// GamesPage is one page of a genre listing or a search result.
type GamesPage struct {
	Data  []models.Game `json:"data"`
	Total int           `json:"total"`
}

func (c *Client) Genres(ctx context.Context) ([]models.Genre, error) {
	const op = "clients.catalog.Genres"

	var resp genresResponse
	if err := c.get(ctx, "/v1/genres", nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp.Data, nil
}

func (c *Client) GamesByGenre(ctx context.Context, genre string, page int) (*GamesPage, error) {
	const op = "clients.catalog.GamesByGenre"

	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("genre", genre)
	q.Set("page", strconv.Itoa(page))

	var resp GamesPage
	if err := c.get(ctx, "/v1/games", q, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (c *Client) Search(ctx context.Context, query string, page int) (*GamesPage, error) {
	const op = "clients.catalog.Search"

	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))

	var resp GamesPage
	if err := c.get(ctx, "/v1/search", q, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (c *Client) Game(ctx context.Context, id int64) (*models.GameDetail, error) {
	const op = "clients.catalog.Game"

	if id <= 0 {
		return nil, fmt.Errorf("%s: invalid game id %d", op, id)
	}

	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))

	var detail models.GameDetail
	if err := c.get(ctx, "/v1/game", q, &detail); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &detail, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamError(service)
		return fmt.Errorf("%w: %w", storage.ErrUpstream, err)
	}
	defer resp.Body.Close()

	c.metrics.RecordUpstreamRequest(service, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return storage.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d", storage.ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
