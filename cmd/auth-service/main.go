// Package main provides the entry point for the auth service.
package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/ynvYauneEnovore/auth-service/internal/container"
	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/config"
	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/logging"
	"github.com/ynvYauneEnovore/auth-service/pkg/constants"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	flags := parseCLIFlags()

	logger := logging.NewLogger()
	if flags.Debug {
		logger = logging.NewLoggerWith(os.Getenv("LOG_FORMAT"), "debug")
	}

	// Load configuration once; it is immutable for the process lifetime.
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err.Error())
		os.Exit(1)
	}
	applyCLIOverrides(cfg, flags)

	handleEarlyExits(flags, cfg, logger)

	// A missing required secret is fatal: exit before binding the listener.
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"environment", cfg.Environment,
		"port", cfg.Server.Port,
		"events_enabled", cfg.EventsEnabled(),
		"version", Version,
		"commit", GitCommit)

	c, err := container.NewContainer(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err.Error())
		os.Exit(1)
	}

	// Context driving the background services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gracefulCloseWG := &sync.WaitGroup{}

	// Initial dependency sweep. A failure does not abort startup: the
	// service starts not-ready and the monitor keeps retrying.
	if err := c.HealthCheck(ctx); err != nil {
		logger.Warn("initial health check failed", "error", err.Error())
		logger.Warn("service starts in degraded mode; readiness will recover when dependencies do")
	} else {
		logger.Info("initial health check passed")
	}

	c.StartServices(ctx, gracefulCloseWG)

	server := createHTTPServer(c, flags.Bind, cfg.Server.Port)
	startHTTPServer(server, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("auth service started", "addr", server.Addr)

	receivedSignal := <-sigChan
	logger.Info("shutdown signal received", "signal", receivedSignal.String())

	// Drain sequence: flip readiness first so the orchestrator stops
	// routing traffic, give it a moment to observe the flip, then close
	// the listener while in-flight requests complete.
	c.HealthService.SetDraining()

	if cfg.Server.DrainDelay > 0 {
		logger.Info("waiting for readiness flip to propagate", "delay", cfg.Server.DrainDelay)
		time.Sleep(cfg.Server.DrainDelay)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn(constants.ErrShutdownTimeout, "error", err.Error())
		// Remaining connections are forcibly closed; bounded termination
		// matters more than finishing every request.
		_ = server.Close()
	} else {
		logger.Info("HTTP server shutdown completed")
	}

	// Stop background services and wait for them to finish
	cancel()

	waitDone := make(chan struct{})
	go func() {
		gracefulCloseWG.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		logger.Info("background services completed")
	case <-time.After(10 * time.Second):
		logger.Warn("background services shutdown timeout reached")
	}

	if err := c.Close(); err != nil {
		logger.Warn("error closing resources", "error", err.Error())
	}

	logger.Info("graceful shutdown completed")
}

// applyCLIOverrides applies flag values over the loaded configuration.
// Precedence: CLI flags > environment > defaults.
func applyCLIOverrides(cfg *config.AppConfig, flags *config.CLIConfig) {
	if port, err := strconv.Atoi(flags.Port); err == nil {
		cfg.Server.Port = port
	}
	if flags.Debug {
		cfg.Logging.Level = "debug"
	}
}
