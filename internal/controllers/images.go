package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
)

type ImageCacher interface {
	Get(ctx context.Context, rawURL string) (string, error)
}

// ImageController serves cover art through the local disk cache so the pages
// never hot-link catalog URLs.
type ImageController struct {
	cache ImageCacher
	log   *slog.Logger
}

func NewImageController(cache ImageCacher, log *slog.Logger) *ImageController {
	return &ImageController{cache: cache, log: log}
}

func (c *ImageController) Serve(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.images.Serve"

	src := r.URL.Query().Get("src")
	if src == "" {
		src = models.PlaceholderImage
	}

	path, err := c.cache.Get(r.Context(), src)
	if err != nil {
		c.log.Warn("image fetch failed",
			slog.String("operation", op),
			slog.String("src", src),
			slog.String("error", err.Error()))
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}
