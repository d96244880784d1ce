package handler

import (
	"encoding/json"
	"net/http"

	"csvinsights/internal/model"
	"csvinsights/internal/service"

	"github.com/gorilla/mux"
)

// FollowupHandler handles follow-up questions
type FollowupHandler struct {
	followupSvc *service.FollowupService
}

// NewFollowupHandler creates a new follow-up handler
func NewFollowupHandler(followupSvc *service.FollowupService) *FollowupHandler {
	return &FollowupHandler{followupSvc: followupSvc}
}

// Ask handles POST /api/reports/{id}/followups
func (h *FollowupHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req model.FollowupRequest
	// A missing or malformed body is treated as an empty question
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req)

	followup, err := h.followupSvc.Ask(r.Context(), mux.Vars(r)["id"], req.Question)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"followup": followup})
}
