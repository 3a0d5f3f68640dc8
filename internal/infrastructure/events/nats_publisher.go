// Package events publishes auth audit events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/ynvYauneEnovore/auth-service/internal/domain/entities"
	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/config"
	"github.com/ynvYauneEnovore/auth-service/pkg/constants"
)

// NATSPublisher publishes audit events to NATS subjects. It also implements
// the HealthChecker contract so the connection participates in readiness.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewNATSPublisher connects to NATS using the configured options.
func NewNATSPublisher(cfg config.NATSConfig, logger *slog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(
		cfg.URL,
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectionTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{
		conn:   conn,
		logger: logger.With("component", "events"),
	}, nil
}

// Publish sends the event to its subject as a JSON envelope.
func (p *NATSPublisher) Publish(_ context.Context, event *entities.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.conn.Publish(event.Subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", event.Subject, err)
	}

	p.logger.Debug("event published", "subject", event.Subject, "user_id", event.UserID)
	return nil
}

// HealthCheck verifies the NATS connection state.
func (p *NATSPublisher) HealthCheck(_ context.Context) error {
	if p.conn == nil {
		return fmt.Errorf("%s: NATS connection is nil", constants.ErrHealthCheck)
	}
	if !p.conn.IsConnected() {
		return fmt.Errorf("%s: NATS connection is not connected: %s", constants.ErrHealthCheck, p.conn.Status())
	}
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}

// NoopPublisher is used when event publishing is not configured.
type NoopPublisher struct{}

// Publish discards the event.
func (NoopPublisher) Publish(context.Context, *entities.Event) error { return nil }

// Close is a no-op.
func (NoopPublisher) Close() error { return nil }
