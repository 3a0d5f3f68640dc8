package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collector) string {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCollector_RequestMetrics(t *testing.T) {
	c := NewCollector()

	c.RecordRequest("/health", http.MethodGet, 200, 3*time.Millisecond)
	c.RecordRequest("/health", http.MethodGet, 200, 2*time.Millisecond)
	c.RecordRequest("/api/v1/auth/login", http.MethodPost, 401, time.Millisecond)

	body := scrape(t, c)
	assert.Contains(t, body, `auth_service_http_requests_total{method="GET",route="/health",status="2xx"} 2`)
	assert.Contains(t, body, `auth_service_http_requests_total{method="POST",route="/api/v1/auth/login",status="4xx"} 1`)
	assert.Contains(t, body, "auth_service_http_request_duration_seconds_bucket")
}

func TestCollector_InFlightGauge(t *testing.T) {
	c := NewCollector()

	c.RequestStarted()
	c.RequestStarted()
	c.RequestFinished()

	body := scrape(t, c)
	assert.Contains(t, body, "auth_service_http_in_flight_requests 1")
}

func TestCollector_DependencyMetrics(t *testing.T) {
	c := NewCollector()

	c.ObserveDependencyCheck("database", true, time.Millisecond)
	c.ObserveDependencyCheck("nats", false, 2*time.Millisecond)

	body := scrape(t, c)
	assert.Contains(t, body, `auth_service_dependency_up{dependency="database"} 1`)
	assert.Contains(t, body, `auth_service_dependency_up{dependency="nats"} 0`)

	// Recovery flips the gauge rather than adding a series
	c.ObserveDependencyCheck("nats", true, time.Millisecond)
	body = scrape(t, c)
	assert.Contains(t, body, `auth_service_dependency_up{dependency="nats"} 1`)
}

func TestCollector_AuthMetrics(t *testing.T) {
	c := NewCollector()

	c.RecordRegistration()
	c.RecordLogin("success")
	c.RecordLogin("failure")
	c.RecordLogin("failure")
	c.RecordTokenIssued("access")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.registrationsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.loginsTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.loginsTotal.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.tokensIssuedTotal.WithLabelValues("access")))
}

func TestCollector_IncludesRuntimeCollectors(t *testing.T) {
	c := NewCollector()

	body := scrape(t, c)
	assert.Contains(t, body, "go_goroutines")
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "2xx", statusLabel(200))
	assert.Equal(t, "2xx", statusLabel(204))
	assert.Equal(t, "3xx", statusLabel(301))
	assert.Equal(t, "4xx", statusLabel(404))
	assert.Equal(t, "5xx", statusLabel(503))
}
