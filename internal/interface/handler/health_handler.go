package handler

import (
	"context"
	"net/http"
	"time"

	"uas-projects-service/internal/domain/repository"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	repo repository.ProjectRepository
}

// NewHealthHandler creates a health handler that pings repo for readiness
func NewHealthHandler(repo repository.ProjectRepository) *HealthHandler {
	return &HealthHandler{repo: repo}
}

// Health reports that the process is up
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Healthy"))
}

// Ready returns 200 only when the project store answers
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "store": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
