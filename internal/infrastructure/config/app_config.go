// Package config resolves the application configuration once at startup
// from environment variables and mounted secret files.
package config

import (
	"fmt"
	"time"

	"github.com/ynvYauneEnovore/auth-service/pkg/constants"
	"github.com/ynvYauneEnovore/auth-service/pkg/env"
)

// AppConfig represents the immutable application configuration snapshot
type AppConfig struct {
	Environment string        `json:"environment"`
	Server      ServerConfig  `json:"server"`
	Database    DBConfig      `json:"database"`
	JWT         JWTConfig     `json:"jwt"`
	NATS        NATSConfig    `json:"nats"`
	Logging     LoggingConfig `json:"logging"`
	Health      HealthConfig  `json:"health"`
	Cloud       CloudConfig   `json:"cloud"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	DrainDelay      time.Duration `json:"drain_delay"`
}

// DBConfig contains database configuration
type DBConfig struct {
	Path     string `json:"path"`
	Password string `json:"-"`
}

// JWTConfig contains JWT configuration
type JWTConfig struct {
	Secret          string        `json:"-"`
	Issuer          string        `json:"issuer"`
	Audience        string        `json:"audience"`
	AccessTokenTTL  time.Duration `json:"access_token_ttl"`
	RefreshTokenTTL time.Duration `json:"refresh_token_ttl"`
}

// NATSConfig contains NATS configuration for the audit event publisher.
// Event publishing is disabled when URL is empty.
type NATSConfig struct {
	URL               string        `json:"url"`
	MaxReconnects     int           `json:"max_reconnects"`
	ReconnectWait     time.Duration `json:"reconnect_wait"`
	ConnectionTimeout time.Duration `json:"connection_timeout"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// HealthConfig contains dependency monitor configuration
type HealthConfig struct {
	CheckInterval time.Duration `json:"check_interval"`
	CheckTimeout  time.Duration `json:"check_timeout"`
}

// CloudConfig carries cloud identity markers that are passed through to the
// process environment but never required by core logic.
type CloudConfig struct {
	AzureSubscriptionID string `json:"azure_subscription_id,omitempty"`
	GoogleCloudProject  string `json:"google_cloud_project,omitempty"`
	AWSRegion           string `json:"aws_region,omitempty"`
}

// LoadConfig loads configuration from environment variables and mounted
// secret files. Secrets resolve through the *_FILE convention first.
func LoadConfig() (*AppConfig, error) {
	config := &AppConfig{
		Environment: env.GetString("NODE_ENV", constants.DefaultEnvironment),
		Server: ServerConfig{
			Port:            env.GetInt("PORT", constants.DefaultPort),
			ReadTimeout:     env.GetDuration("READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    env.GetDuration("WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT", constants.ShutdownTimeout),
			DrainDelay:      env.GetDuration("DRAIN_DELAY", constants.DrainDelay),
		},
		Database: DBConfig{
			Path:     env.GetString("DB_PATH", constants.DefaultDBPath),
			Password: env.GetSecret("DB_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:          env.GetSecret("JWT_SECRET"),
			Issuer:          env.GetString("JWT_ISSUER", constants.DefaultJWTIssuer),
			Audience:        env.GetString("JWT_AUDIENCE", constants.DefaultJWTAudience),
			AccessTokenTTL:  env.GetDuration("ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL),
			RefreshTokenTTL: env.GetDuration("REFRESH_TOKEN_TTL", constants.DefaultRefreshTokenTTL),
		},
		NATS: NATSConfig{
			URL:               env.GetString("NATS_URL", ""),
			MaxReconnects:     env.GetInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:     env.GetDuration("NATS_RECONNECT_WAIT", 2*time.Second),
			ConnectionTimeout: env.GetDuration("NATS_CONNECTION_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:  env.GetString("LOG_LEVEL", constants.DefaultLogLevel),
			Format: env.GetString("LOG_FORMAT", constants.DefaultLogFormat),
		},
		Health: HealthConfig{
			CheckInterval: env.GetDuration("HEALTH_CHECK_INTERVAL", constants.HealthCheckInterval),
			CheckTimeout:  env.GetDuration("HEALTH_CHECK_TIMEOUT", constants.HealthCheckTimeout),
		},
		Cloud: CloudConfig{
			AzureSubscriptionID: env.GetString("AZURE_SUBSCRIPTION_ID", ""),
			GoogleCloudProject:  env.GetString("GOOGLE_CLOUD_PROJECT", ""),
			AWSRegion:           env.GetString("AWS_REGION", ""),
		},
	}

	return config, nil
}

// Validate validates the configuration. A missing required secret is a
// fatal startup error: the process must exit before binding the listener.
func (c *AppConfig) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("%s", constants.ErrMissingJWTSecret)
	}

	if c.Database.Password == "" {
		return fmt.Errorf("%s", constants.ErrMissingDBPassword)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.JWT.Issuer == "" {
		return fmt.Errorf("JWT issuer is required")
	}

	if c.JWT.Audience == "" {
		return fmt.Errorf("JWT audience is required")
	}

	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token TTL must be positive: %s", c.JWT.AccessTokenTTL)
	}

	if c.Health.CheckInterval <= 0 {
		return fmt.Errorf("health check interval must be positive: %s", c.Health.CheckInterval)
	}

	if c.Health.CheckTimeout <= 0 || c.Health.CheckTimeout >= c.Health.CheckInterval {
		return fmt.Errorf("health check timeout must be positive and below the interval: %s", c.Health.CheckTimeout)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// EventsEnabled reports whether the NATS audit event publisher is configured.
func (c *AppConfig) EventsEnabled() bool {
	return c.NATS.URL != ""
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
