package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/logging"
	"github.com/ynvYauneEnovore/auth-service/pkg/constants"
)

// stubChecker is a dependency whose health can be toggled from the test.
type stubChecker struct {
	mu  sync.Mutex
	err error
}

func (c *stubChecker) HealthCheck(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *stubChecker) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *stubChecker) recover() {
	c.fail(nil)
}

func newTestHealthService(t *testing.T, interval time.Duration) *HealthService {
	logger, _ := logging.TestLogger(t)
	return NewHealthService(logger, interval, interval/2, nil)
}

func TestHealthService_LivenessAlwaysHealthy(t *testing.T) {
	svc := newTestHealthService(t, time.Second)

	db := &stubChecker{}
	db.fail(errors.New("connection refused"))
	svc.RegisterChecker(constants.ComponentDatabase, db)
	svc.CheckNow(context.Background())

	// Liveness is independent of dependency state
	status := svc.Liveness()
	assert.Equal(t, constants.StatusHealthy, status.Status)
}

func TestHealthService_ReadinessBeforeFirstSweep(t *testing.T) {
	svc := newTestHealthService(t, time.Second)

	status := svc.Readiness()
	assert.Equal(t, constants.StatusUnhealthy, status.Status)
	assert.Contains(t, status.Checks[constants.ComponentService].Error, "starting")
}

func TestHealthService_ReadinessReflectsDependencyFailure(t *testing.T) {
	svc := newTestHealthService(t, time.Second)
	db := &stubChecker{}
	svc.RegisterChecker(constants.ComponentDatabase, db)

	svc.CheckNow(context.Background())
	assert.Equal(t, constants.StatusHealthy, svc.Readiness().Status)

	db.fail(errors.New("connection refused"))
	svc.CheckNow(context.Background())

	status := svc.Readiness()
	assert.Equal(t, constants.StatusUnhealthy, status.Status)
	require.Contains(t, status.Checks, constants.ComponentDatabase)
	assert.Contains(t, status.Checks[constants.ComponentDatabase].Error, "connection refused")

	db.recover()
	svc.CheckNow(context.Background())
	assert.Equal(t, constants.StatusHealthy, svc.Readiness().Status)
}

func TestHealthService_DegradedWhenOneOfTwoFails(t *testing.T) {
	svc := newTestHealthService(t, time.Second)
	db := &stubChecker{}
	broker := &stubChecker{}
	svc.RegisterChecker(constants.ComponentDatabase, db)
	svc.RegisterChecker(constants.ComponentNATS, broker)

	broker.fail(errors.New("no servers available"))
	status := svc.CheckNow(context.Background())

	assert.Equal(t, constants.StatusDegraded, status.Status)
	assert.Equal(t, 1, status.ErrorCount)
}

func TestHealthService_MonitorLoopPicksUpChanges(t *testing.T) {
	svc := newTestHealthService(t, 20*time.Millisecond)
	db := &stubChecker{}
	svc.RegisterChecker(constants.ComponentDatabase, db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Start(ctx)
	}()

	assert.Eventually(t, func() bool {
		return svc.Readiness().Status == constants.StatusHealthy
	}, time.Second, 5*time.Millisecond, "readiness should become healthy after the first sweep")

	// Simulated outage is observed within one interval
	db.fail(errors.New("connection refused"))
	assert.Eventually(t, func() bool {
		return svc.Readiness().Status == constants.StatusUnhealthy
	}, time.Second, 5*time.Millisecond, "readiness should flip within one interval of failure")

	// Recovery is observed within one interval
	db.recover()
	assert.Eventually(t, func() bool {
		return svc.Readiness().Status == constants.StatusHealthy
	}, time.Second, 5*time.Millisecond, "readiness should recover within one interval")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor loop did not stop on context cancellation")
	}
}

func TestHealthService_DrainingOverridesDependencyState(t *testing.T) {
	svc := newTestHealthService(t, time.Second)
	db := &stubChecker{}
	svc.RegisterChecker(constants.ComponentDatabase, db)
	svc.CheckNow(context.Background())

	require.Equal(t, constants.StatusHealthy, svc.Readiness().Status)

	svc.SetDraining()

	status := svc.Readiness()
	assert.Equal(t, constants.StatusDraining, status.Status)
	assert.Contains(t, status.Checks[constants.ComponentService].Error, "shutting down")
	assert.True(t, svc.Draining())
}

func TestHealthService_StaleSnapshotIsUnhealthy(t *testing.T) {
	svc := newTestHealthService(t, 10*time.Millisecond)
	db := &stubChecker{}
	svc.RegisterChecker(constants.ComponentDatabase, db)
	svc.CheckNow(context.Background())

	require.Equal(t, constants.StatusHealthy, svc.Readiness().Status)

	// No sweeps for more than three intervals: the snapshot goes stale.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, constants.StatusUnhealthy, svc.Readiness().Status)
}

func TestHealthService_CheckTimeoutBoundsSlowDependency(t *testing.T) {
	logger, _ := logging.TestLogger(t)
	svc := NewHealthService(logger, time.Second, 30*time.Millisecond, nil)
	svc.RegisterChecker(constants.ComponentDatabase, slowChecker{delay: time.Second})

	start := time.Now()
	status := svc.CheckNow(context.Background())

	assert.Less(t, time.Since(start), 500*time.Millisecond, "sweep must not wait for a hung dependency")
	assert.Equal(t, constants.StatusUnhealthy, status.Status)
}

type slowChecker struct {
	delay time.Duration
}

func (c slowChecker) HealthCheck(ctx context.Context) error {
	select {
	case <-time.After(c.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
