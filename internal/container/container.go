// Package container wires the application's dependencies together.
package container

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ynvYauneEnovore/auth-service/internal/domain/repositories"
	"github.com/ynvYauneEnovore/auth-service/internal/domain/services"
	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/config"
	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/events"
	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/janitor"
	jwtinfra "github.com/ynvYauneEnovore/auth-service/internal/infrastructure/jwt"
	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/metrics"
	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/sqlite"
	"github.com/ynvYauneEnovore/auth-service/internal/presentation/handlers"
	"github.com/ynvYauneEnovore/auth-service/pkg/constants"
)

// sessionJanitorInterval is how often expired sessions are swept.
const sessionJanitorInterval = 10 * time.Minute

// Container holds all dependencies
type Container struct {
	// Configuration
	Config *config.AppConfig
	Logger *slog.Logger

	// Infrastructure
	Store           *sqlite.Store
	TokenRepository *jwtinfra.TokenRepository
	EventPublisher  repositories.EventPublisher
	Metrics         *metrics.Collector

	// Services
	AuthService    *services.AuthService
	HealthService  *services.HealthService
	SessionJanitor *janitor.SessionJanitor

	// Handlers
	HealthHandler *handlers.HealthHandler
	AuthHandler   *handlers.AuthHandler
	DocsHandler   *handlers.DocsHandler
}

// NewContainer creates a new dependency injection container from validated
// configuration.
func NewContainer(cfg *config.AppConfig, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.initializeInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	if err := c.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	c.initializeHandlers()

	return c, nil
}

// initializeInfrastructure initializes infrastructure dependencies
func (c *Container) initializeInfrastructure() error {
	c.Metrics = metrics.NewCollector()

	store, err := sqlite.NewStore(c.Config.Database.Path, c.Logger)
	if err != nil {
		return err
	}
	c.Store = store

	tokenRepo, err := jwtinfra.NewTokenRepository(
		c.Config.JWT.Secret,
		c.Config.JWT.Issuer,
		c.Config.JWT.Audience,
		c.Config.JWT.AccessTokenTTL,
	)
	if err != nil {
		return fmt.Errorf("failed to create token repository: %w", err)
	}
	c.TokenRepository = tokenRepo

	if c.Config.EventsEnabled() {
		publisher, err := events.NewNATSPublisher(c.Config.NATS, c.Logger)
		if err != nil {
			return fmt.Errorf("failed to create event publisher: %w", err)
		}
		c.EventPublisher = publisher
	} else {
		c.EventPublisher = events.NoopPublisher{}
	}

	return nil
}

// initializeServices initializes the service layer
func (c *Container) initializeServices() error {
	c.AuthService = services.NewAuthService(
		c.Store,
		c.Store,
		c.TokenRepository,
		c.EventPublisher,
		c.Logger,
		c.Metrics,
		c.Config.JWT.RefreshTokenTTL,
	)

	c.HealthService = services.NewHealthService(
		c.Logger,
		c.Config.Health.CheckInterval,
		c.Config.Health.CheckTimeout,
		c.Metrics,
	)

	c.HealthService.RegisterChecker(constants.ComponentDatabase, c.Store)
	if publisher, ok := c.EventPublisher.(*events.NATSPublisher); ok {
		c.HealthService.RegisterChecker(constants.ComponentNATS, publisher)
	}

	c.SessionJanitor = janitor.NewSessionJanitor(c.Store, sessionJanitorInterval, c.Logger)

	return nil
}

// initializeHandlers initializes the presentation layer
func (c *Container) initializeHandlers() {
	c.HealthHandler = handlers.NewHealthHandler(c.HealthService)
	c.AuthHandler = handlers.NewAuthHandler(c.AuthService, c.Logger)
	c.DocsHandler = handlers.NewDocsHandler()
}

// StartServices starts the background services (dependency monitor and
// session janitor) under the given context, tracked by wg for coordinated
// shutdown.
func (c *Container) StartServices(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.HealthService.Start(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.SessionJanitor.Start(ctx)
	}()
}

// HealthCheck performs an immediate health check on all dependencies.
func (c *Container) HealthCheck(ctx context.Context) error {
	status := c.HealthService.CheckNow(ctx)
	if status.Status != constants.StatusHealthy {
		return fmt.Errorf("%s: %d of %d dependency checks failed",
			constants.ErrHealthCheck, status.ErrorCount, len(status.Checks))
	}
	return nil
}

// Close closes all resources
func (c *Container) Close() error {
	c.Logger.Info("closing container resources")

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err.Error())
		}
	}

	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			c.Logger.Warn("error closing store", "error", err.Error())
			return err
		}
	}

	return nil
}
