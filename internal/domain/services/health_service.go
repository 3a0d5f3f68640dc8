// Package services contains the domain services of the auth service.
package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ynvYauneEnovore/auth-service/internal/domain/repositories"
	"github.com/ynvYauneEnovore/auth-service/pkg/constants"
)

// DependencyMetrics records the outcome of dependency checks. Implemented
// by the metrics collector; a nil recorder disables recording.
type DependencyMetrics interface {
	ObserveDependencyCheck(dependency string, healthy bool, duration time.Duration)
}

// HealthService tracks liveness and readiness for the service.
//
// Liveness is a pure in-process check and never touches dependencies.
// Readiness is driven by a background monitor loop that pings every
// registered dependency on a fixed interval with a bounded per-check
// timeout, so the readiness endpoint itself never performs live network
// calls. The last result is a snapshot with a single writer (the loop)
// and many readers (request handlers).
type HealthService struct {
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration
	metrics  DependencyMetrics

	mu       sync.RWMutex
	checkers []namedChecker
	last     *ReadinessStatus
	draining bool
	started  time.Time
}

type namedChecker struct {
	name    string
	checker repositories.HealthChecker
}

// ReadinessStatus is the aggregate result of the last dependency sweep.
type ReadinessStatus struct {
	Status     string           `json:"status"` // "healthy", "degraded", "unhealthy", "draining"
	Timestamp  time.Time        `json:"timestamp"`
	Duration   time.Duration    `json:"duration"`
	Checks     map[string]Check `json:"checks"`
	ErrorCount int              `json:"error_count,omitempty"`
}

// Check is the health of an individual dependency.
type Check struct {
	Status    string        `json:"status"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// LivenessStatus reports process-level liveness.
type LivenessStatus struct {
	Status    string    `json:"status"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// NewHealthService creates a health service. Dependencies are registered
// with RegisterChecker before Start.
func NewHealthService(logger *slog.Logger, interval, timeout time.Duration, metrics DependencyMetrics) *HealthService {
	return &HealthService{
		logger:   logger.With("component", "health"),
		interval: interval,
		timeout:  timeout,
		metrics:  metrics,
		started:  time.Now(),
	}
}

// RegisterChecker registers a dependency check. Registration is append-only
// and happens at startup, before the monitor loop starts.
func (s *HealthService) RegisterChecker(name string, checker repositories.HealthChecker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers = append(s.checkers, namedChecker{name: name, checker: checker})
}

// Start runs the monitor loop until ctx is cancelled. An initial sweep runs
// immediately so readiness does not stay unknown for a full interval.
func (s *HealthService) Start(ctx context.Context) {
	s.logger.Info("starting dependency monitor", "interval", s.interval, "timeout", s.timeout)

	s.CheckNow(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("dependency monitor stopped")
			return
		case <-ticker.C:
			s.CheckNow(ctx)
		}
	}
}

// CheckNow performs one dependency sweep and swaps in the new snapshot.
func (s *HealthService) CheckNow(ctx context.Context) *ReadinessStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.mu.RLock()
	checkers := make([]namedChecker, len(s.checkers))
	copy(checkers, s.checkers)
	s.mu.RUnlock()

	status := &ReadinessStatus{
		Timestamp: time.Now(),
		Checks:    make(map[string]Check, len(checkers)),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	// Ping all dependencies in parallel so one slow dependency cannot
	// stretch the sweep past the per-check timeout.
	for _, dep := range checkers {
		wg.Add(1)
		go func(name string, checker repositories.HealthChecker) {
			defer wg.Done()

			start := time.Now()
			err := checker.HealthCheck(ctx)
			duration := time.Since(start)

			check := Check{
				Duration:  duration,
				Timestamp: start,
			}

			if err != nil {
				check.Status = constants.StatusUnhealthy
				check.Error = err.Error()
			} else {
				check.Status = constants.StatusHealthy
			}

			if s.metrics != nil {
				s.metrics.ObserveDependencyCheck(name, err == nil, duration)
			}

			mu.Lock()
			if err != nil {
				status.ErrorCount++
			}
			status.Checks[name] = check
			mu.Unlock()
		}(dep.name, dep.checker)
	}

	wg.Wait()
	status.Duration = time.Since(status.Timestamp)

	switch {
	case status.ErrorCount == 0:
		status.Status = constants.StatusHealthy
	case status.ErrorCount == len(checkers):
		status.Status = constants.StatusUnhealthy
	default:
		status.Status = constants.StatusDegraded
	}

	s.mu.Lock()
	prev := s.last
	s.last = status
	s.mu.Unlock()

	if prev != nil && prev.Status != status.Status {
		s.logger.Warn("readiness changed",
			"from", prev.Status,
			"to", status.Status,
			"errors", status.ErrorCount)
	}

	return status
}

// Readiness returns the last snapshot. It never triggers dependency calls.
// During drain, readiness reports draining regardless of dependency state.
// A snapshot older than three intervals is reported unhealthy as stale.
func (s *HealthService) Readiness() *ReadinessStatus {
	s.mu.RLock()
	last := s.last
	draining := s.draining
	s.mu.RUnlock()

	if draining {
		return &ReadinessStatus{
			Status:    constants.StatusDraining,
			Timestamp: time.Now(),
			Checks: map[string]Check{
				constants.ComponentService: {
					Status:    constants.StatusDraining,
					Error:     "shutting down",
					Timestamp: time.Now(),
				},
			},
			ErrorCount: 1,
		}
	}

	if last == nil {
		return &ReadinessStatus{
			Status:    constants.StatusUnhealthy,
			Timestamp: time.Now(),
			Checks: map[string]Check{
				constants.ComponentService: {
					Status:    constants.StatusUnhealthy,
					Error:     "starting",
					Timestamp: time.Now(),
				},
			},
			ErrorCount: 1,
		}
	}

	if time.Since(last.Timestamp) > 3*s.interval {
		stale := &ReadinessStatus{
			Status:     constants.StatusUnhealthy,
			Timestamp:  last.Timestamp,
			Checks:     last.Checks,
			ErrorCount: len(last.Checks),
		}
		return stale
	}

	return last
}

// Liveness reports process liveness. It is constant-true once the process
// is serving requests and must never block on external calls.
func (s *HealthService) Liveness() *LivenessStatus {
	return &LivenessStatus{
		Status:    constants.StatusHealthy,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Timestamp: time.Now(),
	}
}

// SetDraining flips readiness to unavailable ahead of listener shutdown so
// the orchestrator stops routing new traffic.
func (s *HealthService) SetDraining() {
	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()
	s.logger.Info("readiness set to draining")
}

// Draining reports whether drain has started.
func (s *HealthService) Draining() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draining
}
