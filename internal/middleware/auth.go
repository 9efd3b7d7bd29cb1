package middleware

import (
	"context"
	"net/http"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/session"
)

// AuthMiddleware resolves the local session cookie into a session object and
// guards the routes that need a signed-in user.
type AuthMiddleware struct {
	sessions *session.Store
}

func NewAuthMiddleware(store *session.Store) *AuthMiddleware {
	return &AuthMiddleware{sessions: store}
}

type contextKey string

const sessionKey = contextKey("session")

// SessionFromContext returns the session attached by WithSession, which may
// be nil for anonymous visitors.
func SessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}

// WithSession attaches the visitor's session, when one exists, and always
// lets the request through. Browsing never requires login.
func (m *AuthMiddleware) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *session.Session
		if cookie, err := r.Cookie(session.CookieName); err == nil {
			sess = m.sessions.Find(cookie.Value)
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser redirects anonymous visitors to the login page. Used for the
// profile and the shelf-write actions.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		if !sess.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
