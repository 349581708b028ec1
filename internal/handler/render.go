// Package handler holds the HTTP surface: the server-rendered pages and
// the small JSON endpoints the pages call from the browser.
package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"rede-backend/internal/domain"
	"rede-backend/pkg/errors"
	"rede-backend/pkg/logger"
	"rede-backend/web"
)

// pageNames lists every renderable page. Each page is parsed together
// with the layout at startup, so a broken template fails boot instead of
// the first request.
var pageNames = []string{"home", "cadastro", "lista", "user", "notfound"}

// Renderer executes the embedded HTML templates. Pages render into a
// buffer first so a mid-render failure never leaks a half-written body.
type Renderer struct {
	pages  map[string]*template.Template
	logger *logger.Logger
}

// NewRenderer parses every page template from the embedded filesystem.
func NewRenderer(log *logger.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(web.Templates, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %q: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages, logger: log}, nil
}

// Render writes a page with the given status. Unknown pages and template
// failures degrade to a plain 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data interface{}) {
	tmpl, ok := r.pages[page]
	if !ok {
		r.logger.WithField("page", page).Error("Unknown page requested for render")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.WithError(err).WithField("page", page).Error("Template execution failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// basePage carries the fields the layout itself consumes.
type basePage struct {
	Title        string
	Session      *domain.Session
	ErrorMessage string
}

// NotFound renders the fallback page for unmatched routes.
func NotFound(renderer *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.Render(w, http.StatusNotFound, "notfound", notFoundPage{
			basePage: basePage{Title: "Página não encontrada"},
			Message:  "Página não encontrada.",
		})
	}
}

// writeJSON encodes a JSON response for the XHR endpoints.
func writeJSON(w http.ResponseWriter, log *logger.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeJSONError writes the structured error envelope the frontend
// scripts consume.
func writeJSONError(w http.ResponseWriter, log *logger.Logger, err error) {
	appErr := errors.AsAppError(err)
	log.WithError(appErr).Warn("Request error")

	errorBody := map[string]interface{}{
		"type":    string(appErr.Type),
		"message": appErr.Message,
	}
	if appErr.Details != nil {
		errorBody["details"] = appErr.Details
	}

	writeJSON(w, log, appErr.StatusCode, map[string]interface{}{
		"success": false,
		"error":   errorBody,
	})
}
