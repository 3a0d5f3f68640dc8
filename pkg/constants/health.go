package constants

import "time"

// Health check statuses
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusDraining  = "draining"
)

// Health components (for detailed readiness reporting)
const (
	ComponentDatabase = "database"
	ComponentNATS     = "nats"
	ComponentService  = "service"
)

// Operational endpoints
const (
	HealthPath    = "/health"
	ReadinessPath = "/ready"
	MetricsPath   = "/metrics"
	DocsPath      = "/api/docs"
)

// Health check loop defaults
const (
	HealthCheckInterval = 5 * time.Second
	HealthCheckTimeout  = 2 * time.Second
)
