package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"rede-backend/internal/domain"
	"rede-backend/pkg/errors"
	"rede-backend/pkg/logger"
)

type fakeViewer struct {
	display  *domain.DisplayProfile
	err      error
	lastID   string
	lastSess *domain.Session
}

func (f *fakeViewer) View(_ context.Context, sess *domain.Session, userID string) (*domain.DisplayProfile, error) {
	f.lastSess = sess
	f.lastID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.display, nil
}

func userRouter(t *testing.T, viewer *fakeViewer) chi.Router {
	t.Helper()
	h := NewUserHandler(viewer, newTestRenderer(t), logger.NewNop())
	r := chi.NewRouter()
	r.Get("/user/{userID}", h.Show)
	return r
}

func TestUserHandler_Show(t *testing.T) {
	owner := &domain.Session{
		ID:       "sess-1",
		Identity: domain.Identity{ID: "user-1", Email: "ana@example.com"},
	}

	tests := []struct {
		name         string
		viewer       *fakeViewer
		sess         *domain.Session
		userID       string
		wantStatus   int
		wantContains []string
		wantAbsent   []string
	}{
		{
			name: "owner sees edit affordance",
			viewer: &fakeViewer{display: &domain.DisplayProfile{
				Source:    domain.ProfileSourceRegistered,
				ID:        "user-1",
				Username:  "ana",
				FirstName: "Ana",
				LastName:  "Souza",
			}},
			sess:         owner,
			userID:       "user-1",
			wantStatus:   http.StatusOK,
			wantContains: []string{"Editar Perfil", "ana@example.com"},
			wantAbsent:   []string{"Conectar"},
		},
		{
			name: "other registered profile offers connect",
			viewer: &fakeViewer{display: &domain.DisplayProfile{
				Source:    domain.ProfileSourceRegistered,
				ID:        "user-2",
				Username:  "bruno",
				FirstName: "Bruno",
				LastName:  "Lima",
			}},
			sess:         owner,
			userID:       "user-2",
			wantStatus:   http.StatusOK,
			wantContains: []string{"Conectar", "Bruno Lima"},
			wantAbsent:   []string{"ana@example.com"},
		},
		{
			name: "suggested profile offers connect even on id collision",
			viewer: &fakeViewer{display: &domain.DisplayProfile{
				Source:    domain.ProfileSourceSuggested,
				ID:        "user-1",
				Username:  "carla",
				FirstName: "Carla",
				LastName:  "Dias",
				About:     "Perfil gerado automaticamente pela API RandomUser.",
			}},
			sess:         owner,
			userID:       "user-1",
			wantStatus:   http.StatusOK,
			wantContains: []string{"Conectar", "Perfil gerado automaticamente"},
		},
		{
			name:         "missing profile renders not found",
			viewer:       &fakeViewer{err: errors.NewNotFoundError("Usuário não encontrado.")},
			sess:         owner,
			userID:       "user-9",
			wantStatus:   http.StatusNotFound,
			wantContains: []string{"Usuário não encontrado.", "Voltar para o Feed"},
		},
		{
			name: "empty about falls back to placeholder",
			viewer: &fakeViewer{display: &domain.DisplayProfile{
				Source:    domain.ProfileSourceRegistered,
				ID:        "user-2",
				Username:  "bruno",
				FirstName: "Bruno",
			}},
			sess:         owner,
			userID:       "user-2",
			wantStatus:   http.StatusOK,
			wantContains: []string{"Sem descrição."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withSession(httptest.NewRequest(http.MethodGet, "/user/"+tt.userID, nil), tt.sess)
			rec := httptest.NewRecorder()
			userRouter(t, tt.viewer).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.userID, tt.viewer.lastID)

			body := rec.Body.String()
			for _, want := range tt.wantContains {
				assert.Contains(t, body, want)
			}
			for _, absent := range tt.wantAbsent {
				assert.NotContains(t, body, absent)
			}
		})
	}
}
