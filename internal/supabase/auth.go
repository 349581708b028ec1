package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rede-backend/internal/domain"
	"rede-backend/pkg/errors"
)

// AuthClient consumes the hosted auth service (GoTrue) REST API.
type AuthClient struct {
	*Client
}

// TokenGrant is the token response of the password, refresh and signup
// endpoints.
type TokenGrant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// Identity maps the grant's user block into the domain identity.
func (g *TokenGrant) Identity() domain.Identity {
	return domain.Identity{ID: g.User.ID, Email: g.User.Email}
}

// ExpiresAt computes the access token expiry from the grant.
func (g *TokenGrant) ExpiresAt(now time.Time) time.Time {
	if g.ExpiresIn <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(g.ExpiresIn) * time.Second)
}

// SignInWithPassword exchanges credentials for a token grant.
func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*TokenGrant, error) {
	grant, err := a.tokenRequest(ctx, "/auth/v1/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	}, "Credenciais inválidas.")
	if err != nil {
		return nil, err
	}

	a.logger.WithField("user_id", grant.User.ID).Debug("Password grant issued")
	return grant, nil
}

// SignUp creates a new identity. The grant carries tokens when the project
// has email confirmation disabled, which this application requires.
func (a *AuthClient) SignUp(ctx context.Context, email, password string) (*TokenGrant, error) {
	grant, err := a.tokenRequest(ctx, "/auth/v1/signup", map[string]string{
		"email":    email,
		"password": password,
	}, "Erro ao criar usuário.")
	if err != nil {
		return nil, err
	}

	if grant.User.ID == "" {
		return nil, errors.NewAuthError("Erro ao criar usuário.", nil)
	}

	a.logger.WithField("user_id", grant.User.ID).Info("Identity created")
	return grant, nil
}

// Refresh exchanges a refresh token for a fresh grant.
func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (*TokenGrant, error) {
	return a.tokenRequest(ctx, "/auth/v1/token?grant_type=refresh_token", map[string]string{
		"refresh_token": refreshToken,
	}, "Sessão expirada.")
}

// SignOut revokes the session remotely. Callers treat failures as
// non-fatal: local state is cleared regardless.
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return errors.NewNetworkError("Erro ao sair.", err)
	}
	a.setAuthHeaders(req, accessToken)

	resp, err := a.httpClient.Do(req)
	a.record("auth", start, err)
	if err != nil {
		return errors.NewNetworkError("Erro ao sair.", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return errors.NewNetworkError("Erro ao sair.", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return errors.NewAuthError("Erro ao sair.", fmt.Errorf("sign-out returned status %d: %s", resp.StatusCode, remoteMessage(body)))
	}
	return nil
}

// tokenRequest posts a JSON body to a GoTrue endpoint and decodes the
// grant. Non-2xx responses become AuthError with the given user message.
func (a *AuthClient) tokenRequest(ctx context.Context, path string, payload map[string]string, userMessage string) (*TokenGrant, error) {
	start := time.Now()

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewInternalError(userMessage, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, errors.NewNetworkError(userMessage, err)
	}
	a.setAuthHeaders(req, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	a.record("auth", start, err)
	if err != nil {
		return nil, errors.NewNetworkError(userMessage, err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, errors.NewNetworkError(userMessage, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewAuthError(userMessage, fmt.Errorf("auth service returned status %d: %s", resp.StatusCode, remoteMessage(body)))
	}

	var grant TokenGrant
	if err := json.Unmarshal(body, &grant); err != nil {
		a.logger.WithError(err).Error("Failed to parse auth response")
		return nil, errors.NewNetworkError(userMessage, err)
	}

	return &grant, nil
}
