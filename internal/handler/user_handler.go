package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rede-backend/internal/domain"
	"rede-backend/internal/middleware"
	"rede-backend/pkg/errors"
	"rede-backend/pkg/logger"
)

// ProfileViewer is the profile-service surface the viewer consumes.
type ProfileViewer interface {
	View(ctx context.Context, sess *domain.Session, userID string) (*domain.DisplayProfile, error)
}

// UserHandler renders the profile viewer page.
type UserHandler struct {
	profiles ProfileViewer
	renderer *Renderer
	logger   *logger.Logger
}

// NewUserHandler creates a new profile viewer handler.
func NewUserHandler(profiles ProfileViewer, renderer *Renderer, log *logger.Logger) *UserHandler {
	return &UserHandler{profiles: profiles, renderer: renderer, logger: log}
}

// userPage is the profile viewer view model.
type userPage struct {
	basePage
	Profile    domain.DisplayProfile
	IsOwner    bool
	OwnerEmail string
}

// notFoundPage is the missing-profile view model.
type notFoundPage struct {
	basePage
	Message string
}

// Show handles GET /user/{userID}
func (h *UserHandler) Show(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	userID := chi.URLParam(r, "userID")

	display, err := h.profiles.View(r.Context(), sess, userID)
	if err != nil {
		appErr := errors.AsAppError(err)
		if appErr.Type != errors.ErrorTypeNotFound {
			h.logger.WithError(err).WithField("user_id", userID).Error("Profile view failed")
		}
		h.renderer.Render(w, appErr.StatusCode, "notfound", notFoundPage{
			basePage: basePage{Title: "Perfil", Session: sess},
			Message:  appErr.Message,
		})
		return
	}

	isOwner := sess != nil &&
		display.Source == domain.ProfileSourceRegistered &&
		display.ID == sess.Identity.ID

	page := userPage{
		basePage: basePage{Title: "Perfil", Session: sess},
		Profile:  *display,
		IsOwner:  isOwner,
	}
	if isOwner {
		page.OwnerEmail = sess.Identity.Email
	}

	h.renderer.Render(w, http.StatusOK, "user", page)
}
