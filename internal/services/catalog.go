package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/clients/catalog"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/sanitize"
)

type CatalogProvider interface {
	Genres(ctx context.Context) ([]models.Genre, error)
	GamesByGenre(ctx context.Context, genre string, page int) (*catalog.GamesPage, error)
	Search(ctx context.Context, query string, page int) (*catalog.GamesPage, error)
	Game(ctx context.Context, id int64) (*models.GameDetail, error)
}

// CacheStore is the optional read-through cache for catalog data.
type CacheStore interface {
	Genres() ([]models.Genre, error)
	PutGenres(genres []models.Genre) error
	Game(id int64) (*models.GameDetail, error)
	PutGame(detail *models.GameDetail) error
}

// CatalogService serves catalog reads for the pages: read-through caching for
// the slow-moving records (genres, details) and sanitized description HTML.
type CatalogService struct {
	upstream  CatalogProvider
	cache     CacheStore
	sanitizer *sanitize.Sanitizer
	log       *slog.Logger
}

// NewCatalogService wires the catalog reads. cache may be nil, which disables
// caching entirely.
func NewCatalogService(upstream CatalogProvider, cache CacheStore, log *slog.Logger) *CatalogService {
	return &CatalogService{
		upstream:  upstream,
		cache:     cache,
		sanitizer: sanitize.New(),
		log:       log,
	}
}

func (s *CatalogService) Genres(ctx context.Context) ([]models.Genre, error) {
	const op = "services.catalog.Genres"

	if s.cache != nil {
		if genres, err := s.cache.Genres(); err == nil {
			return genres, nil
		}
	}

	genres, err := s.upstream.Genres(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.PutGenres(genres); err != nil {
			s.log.Warn("genre cache write failed",
				slog.String("operation", op),
				slog.String("error", err.Error()))
		}
	}

	return genres, nil
}

// Paged listings are not cached; they change too often to be worth the rows.
func (s *CatalogService) GamesByGenre(ctx context.Context, genre string, page int) (*catalog.GamesPage, error) {
	const op = "services.catalog.GamesByGenre"

	resp, err := s.upstream.GamesByGenre(ctx, genre, page)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

func (s *CatalogService) Search(ctx context.Context, query string, page int) (*catalog.GamesPage, error) {
	const op = "services.catalog.Search"

	resp, err := s.upstream.Search(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// GameDetail returns a detail record with its description already sanitized
// for embedding into a page.
func (s *CatalogService) GameDetail(ctx context.Context, id int64) (*models.GameDetail, error) {
	const op = "services.catalog.GameDetail"

	if s.cache != nil {
		if detail, err := s.cache.Game(id); err == nil {
			detail.Description = s.sanitizer.Description(detail.Description)
			return detail, nil
		}
	}

	detail, err := s.upstream.Game(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.PutGame(detail); err != nil {
			s.log.Warn("game cache write failed",
				slog.String("operation", op),
				slog.Int64("game_id", id),
				slog.String("error", err.Error()))
		}
	}

	detail.Description = s.sanitizer.Description(detail.Description)
	return detail, nil
}

// Excerpt trims a description to plain text for list views.
func (s *CatalogService) Excerpt(description string, max int) string {
	return s.sanitizer.Excerpt(description, max)
}
