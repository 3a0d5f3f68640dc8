package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/config"
	"github.com/ynvYauneEnovore/auth-service/pkg/env"
)

// parseCLIFlags sets up, parses, and returns all CLI flags
func parseCLIFlags() *config.CLIConfig {
	// CLI flags with ENV > Default precedence
	port := flag.String("p", env.GetString("PORT", "3026"), "HTTP port")
	bind := flag.String("bind", env.GetString("BIND", "*"), "interface to bind on")
	debug := flag.Bool("d", env.GetBool("DEBUG", false), "enable debug logging")

	configCheck := flag.Bool("check-config", false, "Check configuration and exit")
	help := flag.Bool("help", false, "Show help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "auth-service\n")
		fmt.Fprintf(os.Stderr, "============\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])

		fmt.Fprintf(os.Stderr, "Options:\n")
		fmt.Fprintf(os.Stderr, "  -p <port>        HTTP port (default: 3026)\n")
		fmt.Fprintf(os.Stderr, "  --bind <iface>   Interface to bind on (default: *, use 0.0.0.0 for all)\n")
		fmt.Fprintf(os.Stderr, "  -d               Enable debug logging\n")
		fmt.Fprintf(os.Stderr, "  --check-config   Check configuration and exit\n")
		fmt.Fprintf(os.Stderr, "  --help           Show this help message\n\n")

		fmt.Fprintf(os.Stderr, "Environment Variables:\n")
		fmt.Fprintf(os.Stderr, "  Required secrets (env or *_FILE mounted secret):\n")
		fmt.Fprintf(os.Stderr, "    JWT_SECRET             Access token signing secret\n")
		fmt.Fprintf(os.Stderr, "    DB_PASSWORD            Database credential\n\n")
		fmt.Fprintf(os.Stderr, "  Service config:\n")
		fmt.Fprintf(os.Stderr, "    PORT=3026              HTTP port\n")
		fmt.Fprintf(os.Stderr, "    NODE_ENV=development   Deployment environment\n")
		fmt.Fprintf(os.Stderr, "    LOG_LEVEL=info         Logging level (debug,info,warn,error)\n")
		fmt.Fprintf(os.Stderr, "    LOG_FORMAT=json        Log format (json,text)\n")
		fmt.Fprintf(os.Stderr, "    DB_PATH=auth.db        SQLite database path\n")
		fmt.Fprintf(os.Stderr, "    NATS_URL=nats://...    Audit event broker (optional)\n\n")

		fmt.Fprintf(os.Stderr, "Configuration precedence: CLI flags > Environment variables > Defaults\n\n")
		fmt.Fprintf(os.Stderr, "Endpoints:\n")
		fmt.Fprintf(os.Stderr, "  GET  /health           Liveness probe\n")
		fmt.Fprintf(os.Stderr, "  GET  /ready            Readiness probe\n")
		fmt.Fprintf(os.Stderr, "  GET  /metrics          Prometheus metrics\n")
		fmt.Fprintf(os.Stderr, "  GET  /api/docs         API description\n")
		fmt.Fprintf(os.Stderr, "  *    /api/v1/auth/...  Authentication API\n\n")
	}

	flag.Parse()

	return &config.CLIConfig{
		Port:        *port,
		Bind:        *bind,
		Debug:       *debug,
		ConfigCheck: *configCheck,
		Help:        *help,
	}
}

// handleEarlyExits processes flags that cause early program termination
func handleEarlyExits(flags *config.CLIConfig, cfg *config.AppConfig, logger *slog.Logger) {
	if flags.Help {
		flag.Usage()
		os.Exit(0)
	}

	if flags.ConfigCheck {
		logger.Info("configuration check requested")
		if err := cfg.Validate(); err != nil {
			logger.Error("configuration validation failed", "error", err.Error())
			os.Exit(1)
		}
		logger.Info("configuration validation completed", "status", "valid")
		os.Exit(0)
	}
}
