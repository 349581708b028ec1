package middleware

import (
	"context"
	"net/http"

	"rede-backend/internal/domain"
	"rede-backend/pkg/logger"
)

// SessionCookieName is the cookie referencing the server-side session.
const SessionCookieName = "rede_session"

// ContextKey represents keys used in request context
type ContextKey string

const (
	// SessionContextKey is the key for the resolved session in context
	SessionContextKey ContextKey = "session"
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

// SessionRestorer resolves a session identifier into a live session,
// refreshing tokens as needed. Implemented by the session store.
type SessionRestorer interface {
	Restore(ctx context.Context, sessionID string) (*domain.Session, error)
}

// LoadSession resolves the request's session before any navigation
// decision is made. Handlers and guards downstream only ever see a fully
// restored session (or none); a restore failure degrades to no session.
func LoadSession(sessions SessionRestorer, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *domain.Session

			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				restored, err := sessions.Restore(r.Context(), cookie.Value)
				if err != nil {
					logger.WithError(err).Error("Session restore failed")
				} else {
					sess = restored
				}
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the resolved session, or nil when the
// request carries no identity.
func SessionFromContext(ctx context.Context) *domain.Session {
	sess, _ := ctx.Value(SessionContextKey).(*domain.Session)
	return sess
}

// RequireIdentity redirects unauthenticated requests to the landing page.
func RequireIdentity(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SessionFromContext(r.Context()) == nil {
				logger.WithField("path", r.URL.Path).Debug("Unauthenticated request redirected to landing")
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectAuthenticated sends authenticated requests away from screens
// that only make sense without an identity.
func RedirectAuthenticated(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SessionFromContext(r.Context()) != nil {
				http.Redirect(w, r, target, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
