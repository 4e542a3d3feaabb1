package handlers

import (
	"net/http"
	"time"

	"todo-backend/pkg/api"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	version   string
	startedAt time.Time
}

// NewHealthHandler creates a health handler reporting version.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version, startedAt: time.Now()}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}
