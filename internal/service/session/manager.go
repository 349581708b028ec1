// Package session owns the authenticated state of the application: the
// server-side session records, their restore/refresh lifecycle, and the
// auth-state change subscriptions.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"rede-backend/internal/domain"
	"rede-backend/internal/supabase"
	"rede-backend/pkg/errors"
	"rede-backend/pkg/logger"
	"rede-backend/pkg/redis"
)

// Manager is the session store. It is constructed once at the application
// root and handed down; no ambient globals.
type Manager struct {
	auth      *supabase.AuthClient
	store     *redis.Client
	logger    *logger.Logger
	ttl       time.Duration
	jwtSecret []byte

	mu      sync.Mutex
	subs    map[int]func(domain.AuthEvent)
	nextSub int
}

// NewManager creates the session store. jwtSecret is the auth service's
// HS256 signing secret, used to validate cached access tokens locally.
func NewManager(auth *supabase.AuthClient, store *redis.Client, ttl time.Duration, jwtSecret string, log *logger.Logger) *Manager {
	return &Manager{
		auth:      auth,
		store:     store,
		logger:    log,
		ttl:       ttl,
		jwtSecret: []byte(jwtSecret),
		subs:      make(map[int]func(domain.AuthEvent)),
	}
}

// Subscription is a cancellable handle on auth-state change events.
type Subscription struct {
	id      int
	manager *Manager
}

// Unsubscribe tears the subscription down.
func (s *Subscription) Unsubscribe() {
	s.manager.mu.Lock()
	defer s.manager.mu.Unlock()
	delete(s.manager.subs, s.id)
}

// Subscribe registers a callback for auth-state change events. Events are
// delivered synchronously; each one replaces whatever identity the caller
// cached.
func (m *Manager) Subscribe(fn func(domain.AuthEvent)) *Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSub++
	id := m.nextSub
	m.subs[id] = fn
	return &Subscription{id: id, manager: m}
}

func (m *Manager) notify(event domain.AuthEvent) {
	m.mu.Lock()
	callbacks := make([]func(domain.AuthEvent), 0, len(m.subs))
	for _, fn := range m.subs {
		callbacks = append(callbacks, fn)
	}
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(event)
	}
}

// Login exchanges credentials for a new server session. Invalid
// credentials surface as AuthError.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	grant, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sess, err := m.createSession(ctx, grant)
	if err != nil {
		return nil, err
	}

	m.logger.WithField("user_id", sess.Identity.ID).Info("User logged in")
	m.notify(domain.AuthEvent{Type: domain.AuthEventSignedIn, Session: sess})
	return sess, nil
}

// Signup creates a new identity and a session for it. Duplicate email or
// policy violations surface as AuthError.
func (m *Manager) Signup(ctx context.Context, email, password string) (*domain.Session, error) {
	grant, err := m.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sess, err := m.createSession(ctx, grant)
	if err != nil {
		return nil, err
	}

	m.logger.WithField("user_id", sess.Identity.ID).Info("User signed up")
	m.notify(domain.AuthEvent{Type: domain.AuthEventSignedIn, Session: sess})
	return sess, nil
}

// Logout clears the local session record. The remote sign-out is
// best-effort: a failure there is logged and swallowed, because local
// state must be cleared either way.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	sess, err := m.load(ctx, sessionID)
	if err != nil {
		m.logger.WithError(err).Warn("Failed to load session during logout")
	}

	if sess != nil {
		if err := m.auth.SignOut(ctx, sess.AccessToken); err != nil {
			m.logger.WithError(err).Warn("Remote sign-out failed, clearing local session anyway")
		}
	}

	if err := m.store.Delete(ctx, m.store.KeyBuilder.KeySession(sessionID), m.store.KeyBuilder.KeySuggestedStash(sessionID)); err != nil {
		return errors.NewInternalError("Erro ao sair.", err)
	}

	m.notify(domain.AuthEvent{Type: domain.AuthEventSignedOut})
	return nil
}

// Restore resolves a session identifier into a live session, refreshing
// the token pair when the cached access token is no longer valid. A
// missing or unrefreshable session restores to nil, never to an error the
// guard would block on.
func (m *Manager) Restore(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, nil
	}

	sess, err := m.load(ctx, sessionID)
	if err != nil || sess == nil {
		return nil, err
	}

	if m.accessTokenValid(sess) {
		return sess, nil
	}

	grant, err := m.auth.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		m.logger.WithError(err).WithField("user_id", sess.Identity.ID).Warn("Token refresh failed, destroying session")
		if delErr := m.store.Delete(ctx, m.store.KeyBuilder.KeySession(sessionID)); delErr != nil {
			m.logger.WithError(delErr).Warn("Failed to delete expired session")
		}
		m.notify(domain.AuthEvent{Type: domain.AuthEventSignedOut})
		return nil, nil
	}

	sess.AccessToken = grant.AccessToken
	sess.RefreshToken = grant.RefreshToken
	sess.ExpiresAt = grant.ExpiresAt(time.Now())
	if err := m.save(ctx, sess); err != nil {
		return nil, err
	}

	m.logger.WithField("user_id", sess.Identity.ID).Debug("Session token refreshed")
	m.notify(domain.AuthEvent{Type: domain.AuthEventTokenRefreshed, Session: sess})
	return sess, nil
}

// StashSuggested stores the feed's last suggested batch against the
// session, standing in for the browser's navigation state.
func (m *Manager) StashSuggested(ctx context.Context, sessionID string, batch []domain.SuggestedProfile) error {
	if sessionID == "" || len(batch) == 0 {
		return nil
	}

	raw, err := json.Marshal(batch)
	if err != nil {
		return errors.NewInternalError("Erro ao preparar sugestões.", err)
	}
	return m.store.Set(ctx, m.store.KeyBuilder.KeySuggestedStash(sessionID), raw, redis.TTLSuggestedStash)
}

// SuggestedByID resolves a suggested profile from the session stash, or
// nil when the stash has no entry for the identifier.
func (m *Manager) SuggestedByID(ctx context.Context, sessionID, id string) (*domain.SuggestedProfile, error) {
	if sessionID == "" || id == "" {
		return nil, nil
	}

	raw, err := m.store.Get(ctx, m.store.KeyBuilder.KeySuggestedStash(sessionID))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternalError("Erro ao buscar sugestões.", err)
	}

	var batch []domain.SuggestedProfile
	if err := json.Unmarshal([]byte(raw), &batch); err != nil {
		return nil, errors.NewInternalError("Erro ao buscar sugestões.", err)
	}

	for i := range batch {
		if batch[i].Login.UUID == id {
			return &batch[i], nil
		}
	}
	return nil, nil
}

func (m *Manager) createSession(ctx context.Context, grant *supabase.TokenGrant) (*domain.Session, error) {
	sess := &domain.Session{
		ID:           uuid.NewString(),
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresAt:    grant.ExpiresAt(time.Now()),
		Identity:     grant.Identity(),
	}
	if err := m.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (m *Manager) save(ctx context.Context, sess *domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return errors.NewInternalError("Erro ao salvar sessão.", err)
	}
	if err := m.store.Set(ctx, m.store.KeyBuilder.KeySession(sess.ID), raw, m.ttl); err != nil {
		return errors.NewInternalError("Erro ao salvar sessão.", err)
	}
	return nil
}

func (m *Manager) load(ctx context.Context, sessionID string) (*domain.Session, error) {
	raw, err := m.store.Get(ctx, m.store.KeyBuilder.KeySession(sessionID))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternalError("Erro ao restaurar sessão.", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, errors.NewInternalError("Erro ao restaurar sessão.", err)
	}
	return &sess, nil
}

// accessTokenValid checks the cached token locally: signature when the
// signing secret is configured, expiry always.
func (m *Manager) accessTokenValid(sess *domain.Session) bool {
	if sess.Expired(time.Now()) {
		return false
	}
	if len(m.jwtSecret) == 0 {
		return true
	}

	_, err := jwt.Parse(sess.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return m.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithLeeway(30*time.Second))
	return err == nil
}
