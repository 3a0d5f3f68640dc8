package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("unknown"))
}

func TestWithRequestID(t *testing.T) {
	logger, buf := TestLogger(t)

	ctx, enhanced := WithRequestID(context.Background(), logger)

	requestID := GetRequestID(ctx)
	assert.NotEmpty(t, requestID)

	enhanced.Info("test message")
	AssertLogContains(t, buf, requestID)
}

func TestFromContext(t *testing.T) {
	logger, buf := TestLogger(t)
	fallback, fallbackBuf := TestLogger(t)

	ctx, _ := WithRequestID(context.Background(), logger)

	FromContext(ctx, fallback).Info("from context")
	AssertLogContains(t, buf, "from context")
	assert.Empty(t, fallbackBuf.String())

	// Without a request-scoped logger the fallback is used
	FromContext(context.Background(), fallback).Info("from fallback")
	AssertLogContains(t, fallbackBuf, "from fallback")
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestWithComponent(t *testing.T) {
	logger, buf := TestLogger(t)

	WithComponent(logger, "storage").Info("opened")
	AssertLogContains(t, buf, `"component":"storage"`)
}
