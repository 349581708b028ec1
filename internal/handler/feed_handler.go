package handler

import (
	"context"
	"net/http"

	"rede-backend/internal/domain"
	"rede-backend/internal/middleware"
	"rede-backend/internal/service"
)

// FeedLoader is the feed-service surface the feed handler consumes.
type FeedLoader interface {
	Load(ctx context.Context, sess *domain.Session) *service.FeedResult
}

// FeedHandler renders the feed page.
type FeedHandler struct {
	feed     FeedLoader
	renderer *Renderer
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(feed FeedLoader, renderer *Renderer) *FeedHandler {
	return &FeedHandler{feed: feed, renderer: renderer}
}

// listaPage is the feed view model.
type listaPage struct {
	basePage
	Registered []domain.Profile
	Suggested  []domain.SuggestedProfile
}

// Show handles GET /lista. The page renders only after both feed halves
// have settled; a failed half shows as its empty state.
func (h *FeedHandler) Show(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	result := h.feed.Load(r.Context(), sess)

	h.renderer.Render(w, http.StatusOK, "lista", listaPage{
		basePage:   basePage{Title: "Feed", Session: sess},
		Registered: result.Registered,
		Suggested:  result.Suggested,
	})
}
