package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techradar-io/radar-api/internal/config"
	"github.com/techradar-io/radar-api/internal/platform/logger"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestSetupWithWriter_Levels(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{"warn", false, false},
		{"error", false, false},
		{"bogus", false, true},
	}

	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			restoreDefault(t)
			var buf bytes.Buffer

			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tc.level}, &buf)
			require.NoError(t, err)
			require.NotNil(t, l)

			l.Debug("debug message")
			l.Info("info message")

			assert.Equal(t, tc.debugSeen, bytes.Contains(buf.Bytes(), []byte("debug message")))
			assert.Equal(t, tc.infoSeen, bytes.Contains(buf.Bytes(), []byte("info message")))
		})
	}
}

func TestSetupWithWriter_JSONAndDefault(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	_, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info"}, &buf)
	require.NoError(t, err)

	slog.Info("via default", slog.String("component", "test"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "via default", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "test", entry["component"])
}

func TestContextHelpers(t *testing.T) {
	l, buf := logger.NewBufferLogger()

	ctx := logger.WithLogger(context.Background(), l)
	assert.Same(t, l, logger.FromContext(ctx))
	assert.Same(t, l, logger.FromContextOrDefault(ctx, slog.Default()))

	ctx = logger.With(ctx, slog.String("trace_id", "abc"))
	logger.FromContext(ctx).Info("scoped")

	entry, ok := buf.Find("scoped")
	require.True(t, ok)
	assert.Equal(t, "abc", entry["trace_id"])
}

func TestContextHelpers_Fallbacks(t *testing.T) {
	fallback, _ := logger.NewBufferLogger()

	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))

	ctx := logger.WithLogger(context.Background(), nil)
	assert.Same(t, slog.Default(), logger.FromContext(ctx))
}

func TestParseLevel(t *testing.T) {
	level, ok := logger.ParseLevel(" Warning ")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, level)

	level, ok = logger.ParseLevel("loud")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, level)
}
