// Package constants provides shared constants used throughout the auth service.
package constants

import "time"

// Service identity
const (
	ServiceName    = "auth-service"
	ServiceVersion = "1.0.0"
)

// Performance limits and timeouts
const (
	MaxRequestBodySize = 1 * 1024 * 1024  // 1MB max request body
	ShutdownTimeout    = 30 * time.Second // Max time for graceful shutdown
	DrainDelay         = 5 * time.Second  // Delay between readiness flip and listener close
)

// Default configuration values
const (
	DefaultPort        = 3026
	DefaultEnvironment = "development"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultBindAddress = "*"
	DefaultDBPath      = "auth.db"
)
