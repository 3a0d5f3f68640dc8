// Package middleware provides the HTTP middleware chain: recovery, request
// IDs, structured request logging and Prometheus instrumentation.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/logging"
	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/metrics"
	"github.com/ynvYauneEnovore/auth-service/pkg/constants"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code before writing.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

// Write ensures WriteHeader is called if not already done.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// RequestID attaches a request ID and a request-scoped logger to the context.
func RequestID(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, _ := logging.WithRequestID(r.Context(), baseLogger)
			w.Header().Set("X-Request-Id", logging.GetRequestID(ctx))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logging logs each completed request with method, path, status and latency.
func Logging(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			logger := logging.FromContext(r.Context(), baseLogger)
			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"latency_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

// Metrics records request counts, latency and the in-flight gauge.
func Metrics(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			collector.RequestStarted()
			defer collector.RequestFinished()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			collector.RecordRequest(routeLabel(r.URL.Path), r.Method, rw.statusCode, time.Since(start))
		})
	}
}

// Recovery converts panics into 500 responses so a single bad request
// cannot take the process down.
func Recovery(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger := logging.FromContext(r.Context(), baseLogger)
					logger.Error("panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
					)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies middlewares to a handler, first middleware outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// routeLabel maps a request path to a bounded metric label so unmatched
// paths cannot explode label cardinality.
func routeLabel(path string) string {
	switch path {
	case constants.HealthPath, constants.ReadinessPath, constants.MetricsPath, constants.DocsPath:
		return path
	}
	if strings.HasPrefix(path, "/api/v1/auth/") {
		return path
	}
	return "other"
}
