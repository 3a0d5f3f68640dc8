package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ynvYauneEnovore/auth-service/internal/container"
	"github.com/ynvYauneEnovore/auth-service/internal/presentation/middleware"
	"github.com/ynvYauneEnovore/auth-service/pkg/constants"
)

// createHTTPServer creates and configures the HTTP server with all routes
// and the middleware chain.
func createHTTPServer(c *container.Container, bind string, port int) *http.Server {
	mux := http.NewServeMux()
	c.HealthHandler.RegisterRoutes(mux)
	c.AuthHandler.RegisterRoutes(mux)
	c.DocsHandler.RegisterRoutes(mux)
	mux.Handle("GET "+constants.MetricsPath, c.Metrics.Handler())

	handler := middleware.Chain(mux,
		middleware.Recovery(c.Logger),
		middleware.RequestID(c.Logger),
		middleware.Logging(c.Logger),
		middleware.Metrics(c.Metrics),
	)

	var addr string
	if bind == "*" {
		addr = fmt.Sprintf(":%d", port)
	} else {
		addr = fmt.Sprintf("%s:%d", bind, port)
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       c.Config.Server.ReadTimeout,
		WriteTimeout:      c.Config.Server.WriteTimeout,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// startHTTPServer starts the HTTP server in a goroutine with logging
func startHTTPServer(server *http.Server, logger *slog.Logger) {
	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		logger.Info("operational endpoints available",
			"health", constants.HealthPath,
			"ready", constants.ReadinessPath,
			"metrics", constants.MetricsPath)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err.Error())
			os.Exit(1)
		}
	}()
}
