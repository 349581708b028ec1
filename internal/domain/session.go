package domain

import "time"

// Identity is the authenticated principal owned by the external auth
// service. The application only ever holds a read-only cached copy.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session pairs an identity with the token material issued by the auth
// service. It is persisted server-side and referenced by an opaque cookie.
type Session struct {
	ID           string    `json:"id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Identity     Identity  `json:"identity"`
}

// Expired reports whether the access token is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// AuthEventType classifies auth-state change notifications.
type AuthEventType string

const (
	AuthEventSignedIn       AuthEventType = "SIGNED_IN"
	AuthEventSignedOut      AuthEventType = "SIGNED_OUT"
	AuthEventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
)

// AuthEvent is delivered to session store subscribers whenever the cached
// identity or token material changes. Session is nil on sign-out.
type AuthEvent struct {
	Type    AuthEventType
	Session *Session
}
