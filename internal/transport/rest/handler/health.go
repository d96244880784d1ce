package handler

import (
	"net/http"

	"csvinsights/internal/service"

	"github.com/swaggo/swag"
)

// HealthHandler serves the root banner, health and API docs
type HealthHandler struct {
	healthSvc *service.HealthService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(healthSvc *service.HealthService) *HealthHandler {
	return &HealthHandler{healthSvc: healthSvc}
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("CSV Insights API"))
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.healthSvc.Check(r.Context()))
}

// Docs handles GET /api/swagger/doc.json
func (h *HealthHandler) Docs(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusNotFound, "docs_unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}
