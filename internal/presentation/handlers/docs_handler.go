package handlers

import (
	"net/http"

	"github.com/ynvYauneEnovore/auth-service/pkg/constants"
)

// DocsHandler serves a machine-readable description of the API surface.
type DocsHandler struct{}

// NewDocsHandler creates a new docs handler.
func NewDocsHandler() *DocsHandler {
	return &DocsHandler{}
}

type endpointDoc struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Auth        bool   `json:"auth_required"`
}

type apiDocs struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Endpoints []endpointDoc `json:"endpoints"`
}

// HandleDocs handles GET /api/docs.
func (h *DocsHandler) HandleDocs(w http.ResponseWriter, _ *http.Request) {
	docs := apiDocs{
		Service: constants.ServiceName,
		Version: constants.ServiceVersion,
		Endpoints: []endpointDoc{
			{Method: http.MethodGet, Path: constants.HealthPath, Description: "Liveness probe"},
			{Method: http.MethodGet, Path: constants.ReadinessPath, Description: "Readiness probe"},
			{Method: http.MethodGet, Path: constants.MetricsPath, Description: "Prometheus metrics"},
			{Method: http.MethodGet, Path: constants.DocsPath, Description: "This document"},
			{Method: http.MethodPost, Path: "/api/v1/auth/register", Description: "Create a user account"},
			{Method: http.MethodPost, Path: "/api/v1/auth/login", Description: "Exchange credentials for tokens"},
			{Method: http.MethodPost, Path: "/api/v1/auth/refresh", Description: "Rotate a refresh token"},
			{Method: http.MethodPost, Path: "/api/v1/auth/logout", Description: "Revoke the caller's sessions", Auth: true},
			{Method: http.MethodGet, Path: "/api/v1/auth/me", Description: "Return the authenticated user", Auth: true},
		},
	}

	writeJSONStatus(w, http.StatusOK, docs)
}

// RegisterRoutes registers the docs route.
func (h *DocsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET "+constants.DocsPath, h.HandleDocs)
}
