// Package metrics exposes Prometheus instrumentation for the auth service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "auth_service"

// Collector owns the Prometheus registry and every metric the service
// records. Metrics are registered once at startup; request handlers only
// perform atomic increments and observations.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	inFlightRequests prometheus.Gauge

	// Dependency metrics
	dependencyUp            *prometheus.GaugeVec
	dependencyCheckDuration *prometheus.HistogramVec

	// Auth metrics
	registrationsTotal prometheus.Counter
	loginsTotal        *prometheus.CounterVec
	tokensIssuedTotal  *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry. Process and Go
// runtime collectors are included so scrapes match a standard exporter.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(registry)

	return &Collector{
		registry: registry,

		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by route",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"route"},
		),

		inFlightRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests",
			},
		),

		dependencyUp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dependency_up",
				Help:      "Whether the dependency's last health check succeeded (1) or failed (0)",
			},
			[]string{"dependency"},
		),

		dependencyCheckDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dependency_check_duration_seconds",
				Help:      "Duration of dependency health checks in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0},
			},
			[]string{"dependency"},
		),

		registrationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Total number of successful user registrations",
			},
		),

		loginsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logins_total",
				Help:      "Total number of login attempts by result",
			},
			[]string{"result"},
		),

		tokensIssuedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_issued_total",
				Help:      "Total number of tokens issued by type",
			},
			[]string{"type"},
		),
	}
}

// RecordRequest records a completed HTTP request.
func (c *Collector) RecordRequest(route, method string, status int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(route, method, statusLabel(status)).Inc()
	c.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RequestStarted increments the in-flight gauge.
func (c *Collector) RequestStarted() {
	c.inFlightRequests.Inc()
}

// RequestFinished decrements the in-flight gauge.
func (c *Collector) RequestFinished() {
	c.inFlightRequests.Dec()
}

// ObserveDependencyCheck records the outcome of a dependency health check.
func (c *Collector) ObserveDependencyCheck(dependency string, healthy bool, duration time.Duration) {
	up := 0.0
	if healthy {
		up = 1.0
	}
	c.dependencyUp.WithLabelValues(dependency).Set(up)
	c.dependencyCheckDuration.WithLabelValues(dependency).Observe(duration.Seconds())
}

// RecordRegistration records a successful registration.
func (c *Collector) RecordRegistration() {
	c.registrationsTotal.Inc()
}

// RecordLogin records a login attempt.
func (c *Collector) RecordLogin(result string) {
	c.loginsTotal.WithLabelValues(result).Inc()
}

// RecordTokenIssued records an issued token.
func (c *Collector) RecordTokenIssued(tokenType string) {
	c.tokensIssuedTotal.WithLabelValues(tokenType).Inc()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the HTTP handler for the metrics endpoint in the
// Prometheus text exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
