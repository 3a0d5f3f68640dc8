package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/logging"
	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRequestID_SetsHeader(t *testing.T) {
	logger, _ := logging.TestLogger(t)

	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	RequestID(logger)(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	header := rec.Header().Get("X-Request-Id")
	assert.NotEmpty(t, header)
	assert.Equal(t, header, seen, "context and response header should carry the same ID")
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	logger, _ := logging.TestLogger(t)
	h := RequestID(logger)(okHandler())

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEqual(t, first.Header().Get("X-Request-Id"), second.Header().Get("X-Request-Id"))
}

func TestLogging_RecordsRequest(t *testing.T) {
	logger, buf := logging.TestLogger(t)

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ready", nil))

	out := buf.String()
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, `"path":"/ready"`)
	assert.Contains(t, out, `"status":418`)
}

func TestMetrics_RecordsRequest(t *testing.T) {
	collector := metrics.NewCollector()

	h := Metrics(collector)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `auth_service_http_requests_total{method="GET",route="/health",status="4xx"} 1`)
	assert.Contains(t, body, "auth_service_http_in_flight_requests 0")
}

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	logger, buf := logging.TestLogger(t)

	h := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestChain_OrderIsFirstOutermost(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(okHandler(), mw("outer"), mw("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/health", routeLabel("/health"))
	assert.Equal(t, "/metrics", routeLabel("/metrics"))
	assert.Equal(t, "/api/v1/auth/login", routeLabel("/api/v1/auth/login"))
	assert.Equal(t, "other", routeLabel("/favicon.ico"))
	assert.Equal(t, "other", routeLabel("/.."))
}

func TestResponseWriter_DefaultsTo200(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	_, err := rw.Write([]byte("implicit header"))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rw.statusCode)
}
