package handler

import (
	"context"
	"net/http"
	"time"

	"rede-backend/internal/domain"
	"rede-backend/internal/middleware"
	"rede-backend/pkg/errors"
	"rede-backend/pkg/logger"
)

// Authenticator is the session-store surface the auth handler consumes.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandler handles the login and logout form posts.
type AuthHandler struct {
	sessions      Authenticator
	renderer      *Renderer
	logger        *logger.Logger
	cookieTTL     time.Duration
	secureCookies bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessions Authenticator, renderer *Renderer, cookieTTL time.Duration, secureCookies bool, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		sessions:      sessions,
		renderer:      renderer,
		logger:        log,
		cookieTTL:     cookieTTL,
		secureCookies: secureCookies,
	}
}

// Login handles POST /entrar
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, "", errors.NewValidationError("Requisição inválida.", nil))
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	sess, err := h.sessions.Login(r.Context(), email, password)
	if err != nil {
		h.logger.WithError(err).WithField("email", email).Warn("Login failed")
		h.renderLoginError(w, email, err)
		return
	}

	setSessionCookie(w, sess.ID, h.cookieTTL, h.secureCookies)
	http.Redirect(w, r, "/lista", http.StatusFound)
}

// Logout handles POST /sair
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.WithError(err).Warn("Logout failed, clearing cookie anyway")
		}
	}

	clearSessionCookie(w, h.secureCookies)
	http.Redirect(w, r, "/", http.StatusFound)
}

// renderLoginError re-renders the landing page with the user-safe
// message, keeping the typed email in the form.
func (h *AuthHandler) renderLoginError(w http.ResponseWriter, email string, err error) {
	appErr := errors.AsAppError(err)
	h.renderer.Render(w, appErr.StatusCode, "home", homePage{
		basePage: basePage{
			Title:        "Entrar",
			ErrorMessage: appErr.Message,
		},
		Email: email,
	})
}
