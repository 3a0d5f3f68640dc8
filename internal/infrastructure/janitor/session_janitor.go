// Package janitor removes expired sessions in the background.
package janitor

import (
	"context"
	"log/slog"
	"time"
)

// SessionStore is the slice of the storage layer the janitor needs.
type SessionStore interface {
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// SessionJanitor periodically deletes sessions past their expiry so the
// sessions table does not grow without bound.
type SessionJanitor struct {
	store    SessionStore
	interval time.Duration
	logger   *slog.Logger
}

// NewSessionJanitor creates a janitor sweeping on the given interval.
func NewSessionJanitor(store SessionStore, interval time.Duration, logger *slog.Logger) *SessionJanitor {
	return &SessionJanitor{
		store:    store,
		interval: interval,
		logger:   logger.With("component", "janitor"),
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (j *SessionJanitor) Start(ctx context.Context) {
	j.logger.Info("starting session janitor", "interval", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("session janitor stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *SessionJanitor) sweep(ctx context.Context) {
	removed, err := j.store.DeleteExpiredSessions(ctx, time.Now().UTC())
	if err != nil {
		j.logger.Warn("session sweep failed", "error", err.Error())
		return
	}
	if removed > 0 {
		j.logger.Info("expired sessions removed", "count", removed)
	}
}
