package api

import (
	"net/http"
	"time"

	"github.com/pulsetrack/pulsetrack/internal/api/respond"
)

// HealthHandler reports process liveness and aggregated dependency health.
type HealthHandler struct {
	isHealthy func() bool
}

// NewHealthHandler takes the service-level health probe. A nil probe reports
// healthy (useful in tests).
func NewHealthHandler(isHealthy func() bool) *HealthHandler {
	if isHealthy == nil {
		isHealthy = func() bool { return true }
	}
	return &HealthHandler{isHealthy: isHealthy}
}

// CheckHealth GET /api/health
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if !h.isHealthy() {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	respond.WriteJSON(w, code, map[string]string{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
