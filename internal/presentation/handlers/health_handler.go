// Package handlers provides the HTTP request handlers for the auth service API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ynvYauneEnovore/auth-service/internal/domain/services"
	"github.com/ynvYauneEnovore/auth-service/pkg/constants"
)

// HealthHandler serves the orchestrator probe endpoints.
type HealthHandler struct {
	healthService *services.HealthService
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(healthService *services.HealthService) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

// HandleHealth handles liveness probe requests. It is a pure in-process
// check and returns 200 for as long as the process can serve requests,
// regardless of dependency state.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	status := h.healthService.Liveness()
	writeJSONStatus(w, http.StatusOK, status)
}

// HandleReadiness handles readiness probe requests. It reads the last
// snapshot produced by the background dependency monitor and never performs
// live dependency calls.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, _ *http.Request) {
	status := h.healthService.Readiness()

	statusCode := http.StatusOK
	if status.Status != constants.StatusHealthy {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSONStatus(w, statusCode, status)
}

// RegisterRoutes registers the probe routes.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET "+constants.HealthPath, h.HandleHealth)
	mux.HandleFunc("GET "+constants.ReadinessPath, h.HandleReadiness)
}

func writeJSONStatus(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
