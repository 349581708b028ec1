package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rede-backend/internal/viacep"
	"rede-backend/pkg/logger"
)

// PostalLookup is the postal-code client surface the handler consumes.
type PostalLookup interface {
	Lookup(ctx context.Context, raw string) (*viacep.Address, error)
}

// CEPHandler serves the postal-code lookup the profile form calls on
// field blur.
type CEPHandler struct {
	lookup PostalLookup
	logger *logger.Logger
}

// NewCEPHandler creates a new postal lookup handler.
func NewCEPHandler(lookup PostalLookup, log *logger.Logger) *CEPHandler {
	return &CEPHandler{lookup: lookup, logger: log}
}

// addressResponse is the JSON shape the form script consumes.
type addressResponse struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Region string `json:"region"`
}

// Lookup handles GET /api/cep/{code}
func (h *CEPHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	addr, err := h.lookup.Lookup(r.Context(), code)
	if err != nil {
		writeJSONError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, addressResponse{
		Street: addr.Street,
		City:   addr.City,
		Region: addr.Region,
	})
}
