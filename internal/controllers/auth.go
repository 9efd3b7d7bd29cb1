package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	authclient "github.com/chaitanya-bhargava/QuestLog-frontend/internal/clients/auth"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/session"
)

type AuthClienter interface {
	LoginURL() string
	Me(ctx context.Context, sessionCookie string) (*models.User, error)
	Callback(ctx context.Context, rawQuery string) (string, error)
	Logout(ctx context.Context, sessionCookie string) error
}

// AuthController bridges the backend's Google OAuth flow and the local
// session store. The backend does the actual handshake; this side only
// forwards the browser through it and keeps the resulting cookie.
type AuthController struct {
	auth         AuthClienter
	sessions     *session.Store
	views        Renderer
	log          *slog.Logger
	cookieSecure bool
}

func NewAuthController(auth AuthClienter, sessions *session.Store, views Renderer, log *slog.Logger, cookieSecure bool) *AuthController {
	return &AuthController{
		auth:         auth,
		sessions:     sessions,
		views:        views,
		log:          log,
		cookieSecure: cookieSecure,
	}
}

type loginPage struct {
	Base
	LoginURL string
}

func (c *AuthController) LoginPage(w http.ResponseWriter, r *http.Request) {
	if sessionFor(r).Authenticated() {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	data := loginPage{Base: baseFor(r), LoginURL: "/auth/google"}
	if err := c.views.Render(w, "login", data); err != nil {
		c.log.Error(ErrRender.Error(), slog.String("error", err.Error()))
	}
}

// Login sends the browser to the backend to start the OAuth handshake.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, c.auth.LoginURL(), http.StatusFound)
}

// Callback finishes the handshake: exchange the code on the backend, probe
// who signed in, then mint the local session. Any failure lands back on the
// login page rather than a dead end.
func (c *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.auth.Callback"

	backendCookie, err := c.auth.Callback(r.Context(), r.URL.RawQuery)
	if err != nil {
		c.log.Error(ErrLogin.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, err := c.auth.Me(r.Context(), backendCookie)
	if err != nil {
		c.log.Error(ErrLogin.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	sess := c.sessions.Create(user, backendCookie)
	c.setSessionCookie(w, sess.ID, sess.ExpiresAt)

	c.log.Info("user signed in", slog.String("user_id", user.ID))

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// Logout drops the local session and tells the backend to do the same. The
// remote call is best effort; the local cookie is gone either way.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.auth.Logout"

	if sess := sessionFor(r); sess != nil {
		if sess.BackendCookie != "" {
			if err := c.auth.Logout(r.Context(), sess.BackendCookie); err != nil {
				c.log.Warn("backend logout failed",
					slog.String("operation", op),
					slog.String("error", err.Error()))
			}
		}
		c.sessions.Delete(sess.ID)
	}

	c.setSessionCookie(w, "", time.Unix(0, 0))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *AuthController) setSessionCookie(w http.ResponseWriter, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

var _ AuthClienter = (*authclient.Client)(nil)
