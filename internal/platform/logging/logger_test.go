package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestLogger_KeyValueFields(t *testing.T) {
	logger, logs := observed(LevelDebug)

	logger.Warn("team skipped", "team", "Valur", "reason", errors.New("duplicate slug"), 7, "odd", "dangling")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "team skipped", entry.Message)

	ctx := entry.ContextMap()
	assert.Equal(t, "Valur", ctx["team"])
	assert.Equal(t, "duplicate slug", ctx["reason"])
	assert.Equal(t, "odd", ctx["arg"])
	assert.Contains(t, ctx, "dangling")
	assert.Nil(t, ctx["dangling"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, logs := observed(LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Error("shown")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
}

func TestLogger_ContextAddsTraceIDs(t *testing.T) {
	logger, logs := observed(LevelDebug)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "gamedays inserted", "games", 12)
	logger.InfoContext(context.Background(), "no span")

	require.Equal(t, 2, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
	assert.EqualValues(t, 12, fields["games"])
	assert.NotContains(t, logs.All()[1].ContextMap(), "trace_id")
}

func TestLogger_WithAndNamed(t *testing.T) {
	logger, logs := observed(LevelDebug)

	logger.Named("importer").With("dir", "./data").Info("gameday files found", "total", 3)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "importer", entry.LoggerName)
	assert.Equal(t, "./data", entry.ContextMap()["dir"])
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Format: FormatJSON, Output: &buf, Name: "api"})

	logger.Info("listening", "addr", ":8080")
	require.NoError(t, logger.Sync())
	require.NoError(t, logger.Sync())

	var line map[string]any
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "api", line["logger"])
	assert.Equal(t, "listening", line["msg"])
	assert.Equal(t, ":8080", line["addr"])
	assert.Contains(t, line["caller"], "logger_test.go")
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	logger, logs := observed(LevelDebug)
	previous := Default()
	SetDefault(logger)
	t.Cleanup(func() { SetDefault(previous) })

	var nilLogger *Logger
	nilLogger.Info("via default")

	assert.Equal(t, 1, logs.Len())
	assert.NoError(t, nilLogger.Sync())
}
