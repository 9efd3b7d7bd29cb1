// Package imagecache keeps a disk cache of cover art so pages never hot-link
// catalog image URLs. Remote fetches go through an SSRF-guarded client since
// the URLs arrive in external catalog data.
package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/doyensec/safeurl"
)

const maxImageBytes = 10 << 20

var (
	ErrInvalidURL   = errors.New("invalid image url")
	ErrFetchFailed  = errors.New("failed to fetch image")
	ErrImageTooBig  = errors.New("image exceeds size limit")
	ErrInvalidImage = errors.New("invalid image data")
)

type Cache struct {
	folderPath string
	httpClient *http.Client
	mu         sync.Mutex
}

func New(folderPath string, timeout time.Duration) (*Cache, error) {
	if folderPath == "" {
		return nil, errors.New("folder path is empty")
	}

	folderPath = filepath.Clean(folderPath)
	if err := os.MkdirAll(folderPath, 0o755); err != nil {
		return nil, err
	}

	cfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return &Cache{
		folderPath: folderPath,
		httpClient: safeurl.Client(cfg).Client,
	}, nil
}

// Get returns the local path of the cached copy of rawURL, fetching and
// storing it first when missing.
func (c *Cache) Get(ctx context.Context, rawURL string) (string, error) {
	const op = "storage.imagecache.Get"

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%s: %w: %q", op, ErrInvalidURL, rawURL)
	}

	fullPath := filepath.Join(c.folderPath, c.filename(rawURL))

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(fullPath); err == nil {
		return fullPath, nil
	}

	data, err := c.fetch(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := c.save(data, fullPath); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return fullPath, nil
}

func (c *Cache) filename(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:]) + ".img"
}

func (c *Cache) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if len(data) > maxImageBytes {
		return nil, ErrImageTooBig
	}
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}

	return data, nil
}

// save writes through a temp file and renames, so a crash mid-write never
// leaves a truncated image behind.
func (c *Cache) save(data []byte, fullPath string) error {
	tempPath := fullPath + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write image data: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, fullPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
