package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/highnoon/core/logger"
)

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(&buf, logger.Config{Level: "warn", Format: logger.FormatJSON})

	log.Info("dropped")
	log.Warn("kept", logger.StatusCode(404), logger.Error(nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, float64(404), entry["status_code"])
	assert.Contains(t, entry, "ts")
	assert.NotContains(t, entry, "time")
	assert.NotContains(t, entry, "error")
}

func TestNew_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(&buf, logger.Config{Level: "debug", Format: logger.FormatText})

	log.Debug("hello", logger.Method("GET"))
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "GET")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	assert.Equal(t, "error", logger.Error(err).Key)
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.True(t, logger.Pattern("").Equal(slog.Attr{}))
	assert.True(t, logger.Stack(nil).Equal(slog.Attr{}))

	assert.Equal(t, "request_id", logger.RequestID("abc").Key)
	assert.Equal(t, "/users/:id", logger.Pattern("/users/:id").Value.String())
	assert.Equal(t, 250*time.Millisecond, logger.Latency(250*time.Millisecond).Value.Duration())
	assert.Equal(t, int64(12), logger.BytesOut(12).Value.Int64())

	g := logger.Group("req", logger.Method("GET"), logger.Path("/"))
	require.Equal(t, slog.KindGroup, g.Value.Kind())
	assert.Len(t, g.Value.Group(), 2)
}
