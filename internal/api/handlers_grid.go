package api

import (
	"net/http"

	"github.com/pulsetrack/pulsetrack/internal/api/respond"
	"github.com/pulsetrack/pulsetrack/internal/auth"
	"github.com/pulsetrack/pulsetrack/internal/services"
)

// GridHandler serves the 7x24 aggregation and the frequency ranking.
type GridHandler struct {
	svc *services.ActivityService
}

func NewGridHandler(svc *services.ActivityService) *GridHandler { return &GridHandler{svc: svc} }

// GetGrid GET /api/grid?activity=NAME
// The optional activity parameter filters the whole aggregation by exact name.
func (h *GridHandler) GetGrid(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	g, err := h.svc.Grid(r.Context(), sess.User.UserID, r.URL.Query().Get("activity"))
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, g)
}

// GetSummary GET /api/activities/summary
func (h *GridHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	entries, err := h.svc.Summary(r.Context(), sess.User.UserID)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"activities": entries,
		"count":      len(entries),
	})
}
