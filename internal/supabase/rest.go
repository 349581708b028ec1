package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"rede-backend/internal/domain"
	"rede-backend/pkg/errors"
)

// usersTable is the single row-store table this application touches.
const usersTable = "users"

// RestClient consumes the hosted row store through its REST (PostgREST)
// boundary.
type RestClient struct {
	*Client
}

// SelectProfiles returns every registered profile row.
func (r *RestClient) SelectProfiles(ctx context.Context, accessToken string) ([]domain.Profile, error) {
	body, err := r.do(ctx, http.MethodGet, r.tableURL("select=*"), accessToken, nil, "")
	if err != nil {
		return nil, err
	}

	var profiles []domain.Profile
	if err := json.Unmarshal(body, &profiles); err != nil {
		return nil, errors.NewNetworkError("Erro ao buscar usuários.", err)
	}
	return profiles, nil
}

// GetProfile returns the profile row keyed by the given identity
// identifier, or NotFoundError when no row exists.
func (r *RestClient) GetProfile(ctx context.Context, accessToken, id string) (*domain.Profile, error) {
	query := fmt.Sprintf("select=*&id=eq.%s", url.QueryEscape(id))
	body, err := r.do(ctx, http.MethodGet, r.tableURL(query), accessToken, nil, "")
	if err != nil {
		return nil, err
	}

	var profiles []domain.Profile
	if err := json.Unmarshal(body, &profiles); err != nil {
		return nil, errors.NewNetworkError("Erro ao buscar perfil.", err)
	}
	if len(profiles) == 0 {
		return nil, errors.NewNotFoundError("Usuário não encontrado.")
	}
	return &profiles[0], nil
}

// InsertProfile creates a profile row. The row map carries exactly the
// columns the caller produced.
func (r *RestClient) InsertProfile(ctx context.Context, accessToken string, row map[string]interface{}) error {
	_, err := r.do(ctx, http.MethodPost, r.tableURL(""), accessToken, row, "return=minimal")
	return err
}

// UpdateProfile mutates the profile row keyed by id.
func (r *RestClient) UpdateProfile(ctx context.Context, accessToken, id string, row map[string]interface{}) error {
	query := fmt.Sprintf("id=eq.%s", url.QueryEscape(id))
	_, err := r.do(ctx, http.MethodPatch, r.tableURL(query), accessToken, row, "return=minimal")
	return err
}

func (r *RestClient) tableURL(query string) string {
	u := fmt.Sprintf("%s/rest/v1/%s", r.baseURL, usersTable)
	if query != "" {
		u += "?" + query
	}
	return u
}

// do performs one row-store request. Write failures surface as
// PersistError, read failures as network/persistence errors per status.
func (r *RestClient) do(ctx context.Context, method, rawURL, accessToken string, payload map[string]interface{}, prefer string) ([]byte, error) {
	start := time.Now()

	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.NewInternalError("Erro ao salvar.", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, errors.NewNetworkError("Erro ao acessar dados.", err)
	}
	r.setAuthHeaders(req, accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := r.httpClient.Do(req)
	r.record("rest", start, err)
	if err != nil {
		return nil, errors.NewNetworkError("Erro ao acessar dados.", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, errors.NewNetworkError("Erro ao acessar dados.", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		cause := fmt.Errorf("row store returned status %d: %s", resp.StatusCode, remoteMessage(body))
		r.logger.WithFields(map[string]interface{}{
			"method":      method,
			"status_code": resp.StatusCode,
		}).Error("Row-store request failed")
		if method == http.MethodGet {
			return nil, errors.NewNetworkError("Erro ao acessar dados.", cause)
		}
		return nil, errors.NewPersistError("Erro ao salvar.", cause)
	}

	return body, nil
}
