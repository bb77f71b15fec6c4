package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	require.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		envValue string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.envValue, func(t *testing.T) {
			t.Setenv("MOONMISSION_LOG_LEVEL", tt.envValue)
			assert.Equal(t, tt.expected, getLogLevelFromEnv())
		})
	}
}

func TestLogFormatFromEnv(t *testing.T) {
	t.Setenv("MOONMISSION_LOG_FORMAT", "JSON")
	assert.Equal(t, FormatJSON, getLogFormatFromEnv())

	t.Setenv("MOONMISSION_LOG_FORMAT", "logfmt")
	assert.Equal(t, FormatLogfmt, getLogFormatFromEnv())

	t.Setenv("MOONMISSION_LOG_FORMAT", "")
	assert.Equal(t, FormatText, getLogFormatFromEnv())
}

func TestCorrelationID(t *testing.T) {
	t.Run("explicit id", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "abc")
		assert.Equal(t, "abc", GetCorrelationID(ctx))
	})

	t.Run("generated id", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "")
		id := GetCorrelationID(ctx)
		assert.Len(t, id, 16)
	})

	t.Run("missing id", func(t *testing.T) {
		assert.Empty(t, GetCorrelationID(context.Background()))
	})

	t.Run("unique ids", func(t *testing.T) {
		assert.NotEqual(t, GenerateCorrelationID(), GenerateCorrelationID())
	})
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOptions(&buf, slog.LevelDebug, FormatJSON)
	ctx := WithCorrelationID(context.Background(), "test-id-123")

	t.Run("info logging", func(t *testing.T) {
		buf.Reset()
		logger.Info(ctx, "test info message", "key", "value")

		entry := decodeEntry(t, &buf)
		assert.Equal(t, "test info message", entry["msg"])
		assert.Equal(t, "test-id-123", entry["correlation_id"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("error logging", func(t *testing.T) {
		buf.Reset()
		logger.Error(ctx, "test error message", errors.New("test error"), "context", "test")

		entry := decodeEntry(t, &buf)
		assert.Equal(t, "test error message", entry["msg"])
		assert.Equal(t, "test error", entry["error"])
		assert.Equal(t, "test", entry["context"])
	})

	t.Run("debug logging", func(t *testing.T) {
		buf.Reset()
		logger.Debug(ctx, "debug message")
		assert.Contains(t, strings.ToLower(buf.String()), "debug")
	})

	t.Run("warn logging", func(t *testing.T) {
		buf.Reset()
		logger.Warn(ctx, "warning message")
		assert.Contains(t, buf.String(), "warning message")
	})
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOptions(&buf, slog.LevelWarn, FormatText)

	logger.Info(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	logger.Warn(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOptions(&buf, slog.LevelInfo, FormatJSON).With("component", "engine")

	logger.Info(context.Background(), "step")
	entry := decodeEntry(t, &buf)
	assert.Equal(t, "engine", entry["component"])
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	assert.NotPanics(t, func() {
		logger.Error(context.Background(), "ignored", errors.New("boom"))
	})
}

func TestWrapError(t *testing.T) {
	t.Run("wrap nil error", func(t *testing.T) {
		assert.NoError(t, WrapError(nil, "context"))
	})

	t.Run("wrap error with context", func(t *testing.T) {
		originalErr := errors.New("original error")
		wrapped := WrapError(originalErr, "additional context")

		assert.EqualError(t, wrapped, "additional context: original error")
		assert.ErrorIs(t, wrapped, originalErr)
	})

	t.Run("wrap error with formatted context", func(t *testing.T) {
		wrapped := WrapError(errors.New("original error"), "context with %s and %d", "string", 42)
		assert.EqualError(t, wrapped, "context with string and 42: original error")
	})
}

func TestLogWithoutCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOptions(&buf, slog.LevelInfo, FormatJSON)

	logger.Info(context.Background(), "test message")
	assert.NotContains(t, buf.String(), "correlation_id")
}
