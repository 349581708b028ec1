package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rede-backend/internal/viacep"
	"rede-backend/pkg/errors"
	"rede-backend/pkg/logger"
)

type fakeLookup struct {
	addr     *viacep.Address
	err      error
	lastCode string
}

func (f *fakeLookup) Lookup(_ context.Context, raw string) (*viacep.Address, error) {
	f.lastCode = raw
	if f.err != nil {
		return nil, f.err
	}
	return f.addr, nil
}

func cepRouter(lookup *fakeLookup) chi.Router {
	h := NewCEPHandler(lookup, logger.NewNop())
	r := chi.NewRouter()
	r.Get("/api/cep/{code}", h.Lookup)
	return r
}

func TestCEPHandler_Lookup(t *testing.T) {
	tests := []struct {
		name        string
		code        string
		lookup      *fakeLookup
		wantStatus  int
		wantStreet  string
		wantErrType string
	}{
		{
			name: "resolves address",
			code: "01310100",
			lookup: &fakeLookup{
				addr: &viacep.Address{Street: "Avenida Paulista", City: "São Paulo", Region: "SP"},
			},
			wantStatus: http.StatusOK,
			wantStreet: "Avenida Paulista",
		},
		{
			name:        "unknown code",
			code:        "99999999",
			lookup:      &fakeLookup{err: errors.NewNotFoundError("CEP não encontrado.")},
			wantStatus:  http.StatusNotFound,
			wantErrType: "not_found",
		},
		{
			name:        "incomplete code",
			code:        "1310100",
			lookup:      &fakeLookup{err: errors.NewValidationError("CEP inválido.", nil)},
			wantStatus:  http.StatusBadRequest,
			wantErrType: "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			cepRouter(tt.lookup).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cep/"+tt.code, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.code, tt.lookup.lastCode)

			if tt.wantErrType != "" {
				var body struct {
					Success bool `json:"success"`
					Error   struct {
						Type    string `json:"type"`
						Message string `json:"message"`
					} `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.False(t, body.Success)
				assert.Equal(t, tt.wantErrType, body.Error.Type)
				assert.NotEmpty(t, body.Error.Message)
				return
			}

			var addr addressResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &addr))
			assert.Equal(t, tt.wantStreet, addr.Street)
			assert.Equal(t, "São Paulo", addr.City)
			assert.Equal(t, "SP", addr.Region)
		})
	}
}
