package handler

import (
	"net/http"

	"rede-backend/internal/middleware"
)

// HomeHandler renders the landing page with the login form.
type HomeHandler struct {
	renderer *Renderer
}

// NewHomeHandler creates a new home handler.
func NewHomeHandler(renderer *Renderer) *HomeHandler {
	return &HomeHandler{renderer: renderer}
}

// homePage is the landing page view model.
type homePage struct {
	basePage
	Email string
}

// Show handles GET /
func (h *HomeHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "home", homePage{
		basePage: basePage{
			Title:   "Entrar",
			Session: middleware.SessionFromContext(r.Context()),
		},
	})
}
