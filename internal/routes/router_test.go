package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/clients/catalog"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/clients/gamelog"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/session"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/shelf"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/views"
)

type stubCatalog struct{}

func (stubCatalog) Genres(ctx context.Context) ([]models.Genre, error) { return nil, nil }
func (stubCatalog) GamesByGenre(ctx context.Context, genre string, page int) (*catalog.GamesPage, error) {
	return &catalog.GamesPage{}, nil
}
func (stubCatalog) Search(ctx context.Context, query string, page int) (*catalog.GamesPage, error) {
	return &catalog.GamesPage{}, nil
}
func (stubCatalog) Game(ctx context.Context, id int64) (*models.GameDetail, error) {
	return &models.GameDetail{ID: id}, nil
}

type stubGameLog struct{}

func (stubGameLog) Get(ctx context.Context, userID string, gameID int64) (*gamelog.Entry, error) {
	return &gamelog.Entry{GameID: gameID, Shelf: shelf.None}, nil
}
func (stubGameLog) Shelf(ctx context.Context, userID string, s shelf.Shelf) ([]models.Game, error) {
	return nil, nil
}
func (stubGameLog) Upsert(ctx context.Context, userID string, gameID int64, s shelf.Shelf, rating int) error {
	return nil
}
func (stubGameLog) Delete(ctx context.Context, userID string, gameID int64) error { return nil }

type stubAuth struct{}

func (stubAuth) LoginURL() string { return "http://auth.local/v1/auth/google?provider=google" }
func (stubAuth) Me(ctx context.Context, sessionCookie string) (*models.User, error) {
	return &models.User{ID: "u-1"}, nil
}
func (stubAuth) Callback(ctx context.Context, rawQuery string) (string, error) { return "c", nil }
func (stubAuth) Logout(ctx context.Context, sessionCookie string) error        { return nil }

type stubImages struct{}

func (stubImages) Get(ctx context.Context, rawURL string) (string, error) { return "", nil }

func testRouter(t *testing.T, sessions *session.Store) http.Handler {
	t.Helper()

	renderer, err := views.New()
	require.NoError(t, err)

	return SetupRouter(Deps{
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Catalog:  stubCatalog{},
		GameLog:  stubGameLog{},
		Auth:     stubAuth{},
		Images:   stubImages{},
		Sessions: sessions,
		Views:    renderer,
		Cors:     []string{"http://localhost:3000"},
	})
}

func TestPublicPages(t *testing.T) {
	r := testRouter(t, session.NewStore(0))

	for _, path := range []string{"/", "/genres", "/login", "/game/42"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestProfileRequiresLogin(t *testing.T) {
	r := testRouter(t, session.NewStore(0))

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/profile"},
		{http.MethodPost, "/shelf/move"},
		{http.MethodPost, "/shelf/rate"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusSeeOther, rec.Code, route.path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), route.path)
	}
}

func TestProfileWithSession(t *testing.T) {
	sessions := session.NewStore(0)
	sess := sessions.Create(&models.User{ID: "u-1", Name: "Sam"}, "backend")

	r := testRouter(t, sessions)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRedirectsToProvider(t *testing.T) {
	r := testRouter(t, session.NewStore(0))

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://auth.local/v1/auth/google?provider=google", rec.Header().Get("Location"))
}
