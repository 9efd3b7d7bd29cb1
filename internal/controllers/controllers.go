package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/middleware"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/session"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/shelf"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrGetGenres    = errors.New("failed to get genres")
	ErrGetGames     = errors.New("failed to get games")
	ErrGetGame      = errors.New("failed to get game")
	ErrGetShelves   = errors.New("failed to fetch games data")
	ErrShelfUpdate  = errors.New("failed to update shelf")
	ErrRatingUpdate = errors.New("failed to update rating")
	ErrLogin        = errors.New("login failed")
	ErrEncoding     = errors.New("failed to encode")
	ErrRender       = errors.New("failed to render page")
)

// Renderer is implemented by views.Renderer.
type Renderer interface {
	Render(w io.Writer, page string, data any) error
}

// Base carries the layout fields every page needs.
type Base struct {
	User        *models.User
	SearchQuery string
}

// Card is one game tile with its shelf controls.
type Card struct {
	Game   models.Game
	Status shelf.Shelf
	Back   string
}

func baseFor(r *http.Request) Base {
	b := Base{SearchQuery: r.URL.Query().Get("query")}
	if sess := middleware.SessionFromContext(r.Context()); sess.Authenticated() {
		b.User = sess.User
	}
	return b
}

func sessionFor(r *http.Request) *session.Session {
	return middleware.SessionFromContext(r.Context())
}

type errorPage struct {
	Base
	Message string
}

func renderError(w http.ResponseWriter, r *http.Request, log *slog.Logger, rend Renderer, status int, message string) {
	w.WriteHeader(status)

	page := "error"
	if status == http.StatusNotFound {
		page = "notfound"
	}

	if err := rend.Render(w, page, errorPage{Base: baseFor(r), Message: message}); err != nil {
		log.Error(ErrRender.Error(), slog.String("error", err.Error()))
	}
}
