package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ynvYauneEnovore/auth-service/pkg/constants"
)

func TestDocsHandler(t *testing.T) {
	mux := http.NewServeMux()
	NewDocsHandler().RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, constants.DocsPath, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var docs struct {
		Service   string `json:"service"`
		Endpoints []struct {
			Method string `json:"method"`
			Path   string `json:"path"`
			Auth   bool   `json:"auth_required"`
		} `json:"endpoints"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&docs))

	assert.Equal(t, constants.ServiceName, docs.Service)

	paths := make(map[string]bool)
	for _, e := range docs.Endpoints {
		paths[e.Method+" "+e.Path] = e.Auth
	}

	assert.Contains(t, paths, "GET "+constants.HealthPath)
	assert.Contains(t, paths, "GET "+constants.ReadinessPath)
	assert.Contains(t, paths, "GET "+constants.MetricsPath)
	assert.Contains(t, paths, "POST /api/v1/auth/login")
	assert.True(t, paths["GET /api/v1/auth/me"], "me endpoint should be marked auth-required")
	assert.False(t, paths["POST /api/v1/auth/login"], "login should not require auth")
}
