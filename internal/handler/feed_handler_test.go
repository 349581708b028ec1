package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"rede-backend/internal/domain"
	"rede-backend/internal/middleware"
	"rede-backend/internal/service"
)

type fakeFeedLoader struct {
	result   *service.FeedResult
	lastSess *domain.Session
}

func (f *fakeFeedLoader) Load(_ context.Context, sess *domain.Session) *service.FeedResult {
	f.lastSess = sess
	return f.result
}

func withSession(req *http.Request, sess *domain.Session) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.SessionContextKey, sess)
	return req.WithContext(ctx)
}

func suggestedFixture(uuid, first, last string) domain.SuggestedProfile {
	var s domain.SuggestedProfile
	s.Login.UUID = uuid
	s.Login.Username = first + "." + last
	s.Name.First = first
	s.Name.Last = last
	s.Picture.Medium = "https://example.com/" + uuid + "/med.jpg"
	s.Location.City = "Curitiba"
	s.Location.Country = "Brazil"
	return s
}

func TestFeedHandler_ShowBothHalves(t *testing.T) {
	loader := &fakeFeedLoader{
		result: &service.FeedResult{
			Registered: []domain.Profile{
				{ID: "user-1", Username: "ana", FirstName: "Ana", LastName: "Souza"},
			},
			Suggested: []domain.SuggestedProfile{
				suggestedFixture("sugg-1", "Bruno", "Lima"),
			},
		},
	}
	h := NewFeedHandler(loader, newTestRenderer(t))

	sess := &domain.Session{ID: "sess-1", Identity: domain.Identity{ID: "user-1"}}
	rec := httptest.NewRecorder()
	h.Show(rec, withSession(httptest.NewRequest(http.MethodGet, "/lista", nil), sess))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, sess, loader.lastSess)

	body := rec.Body.String()
	assert.Contains(t, body, "Ana Souza")
	assert.Contains(t, body, `href="/user/user-1"`)
	assert.Contains(t, body, "Bruno Lima")
	assert.Contains(t, body, `href="/user/sugg-1"`)
	assert.NotContains(t, body, "Nenhum usuário cadastrado ainda.")
}

func TestFeedHandler_ShowEmptyRegistered(t *testing.T) {
	loader := &fakeFeedLoader{result: &service.FeedResult{}}
	h := NewFeedHandler(loader, newTestRenderer(t))

	sess := &domain.Session{ID: "sess-1"}
	rec := httptest.NewRecorder()
	h.Show(rec, withSession(httptest.NewRequest(http.MethodGet, "/lista", nil), sess))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nenhum usuário cadastrado ainda.")
}
