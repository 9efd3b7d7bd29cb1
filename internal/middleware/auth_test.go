package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/session"
)

func TestWithSessionAttachesKnownSession(t *testing.T) {
	store := session.NewStore(time.Hour)
	sess := store.Create(&models.User{ID: "u1", Name: "Chaitanya"}, "")
	m := NewAuthMiddleware(store)

	var got *session.Session
	handler := m.WithSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "u1", got.User.ID)
}

func TestWithSessionAnonymous(t *testing.T) {
	m := NewAuthMiddleware(session.NewStore(time.Hour))

	called := false
	handler := m.WithSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, SessionFromContext(r.Context()))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	store := session.NewStore(time.Hour)
	m := NewAuthMiddleware(store)

	handler := m.WithSession(m.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for anonymous visitors")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireUserPassesAuthenticated(t *testing.T) {
	store := session.NewStore(time.Hour)
	sess := store.Create(&models.User{ID: "u1"}, "")
	m := NewAuthMiddleware(store)

	called := false
	handler := m.WithSession(m.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
}
