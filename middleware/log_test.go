package middleware_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/router"
	"github.com/dmitrymomot/highnoon/middleware"
)

func jsonLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func entries(t *testing.T, buf *syncBuffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLog_Success(t *testing.T) {
	t.Parallel()

	log, buf := jsonLogger()
	h := serve(okHandler,
		middleware.RequestID[handler.EmptyState, *handler.Locals](),
		middleware.Log[handler.EmptyState, *handler.Locals](log),
	)

	w := get(h)
	require.Equal(t, http.StatusOK, w.Code)

	logs := entries(t, buf)
	require.Len(t, logs, 2)

	assert.Equal(t, "DEBUG", logs[0]["level"])
	assert.Equal(t, "request", logs[0]["event"])

	assert.Equal(t, "INFO", logs[1]["level"])
	assert.Equal(t, "request completed", logs[1]["msg"])
	assert.Equal(t, "response", logs[1]["event"])
	assert.EqualValues(t, 200, logs[1]["status_code"])
	assert.Equal(t, "/", logs[1]["pattern"])
	assert.Equal(t, w.Header().Get(middleware.DefaultRequestIDHeader), logs[1]["request_id"])
}

func TestLog_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		h       func(*req) (*handler.Response, error)
		status  int
		level   string
		message string
	}{
		{
			name:    "client error",
			h:       func(*req) (*handler.Response, error) { return nil, handler.ErrBadRequest },
			status:  http.StatusBadRequest,
			level:   "WARN",
			message: "request completed",
		},
		{
			name:    "failure",
			h:       func(*req) (*handler.Response, error) { return nil, errors.New("db down") },
			status:  http.StatusInternalServerError,
			level:   "ERROR",
			message: "request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			log, buf := jsonLogger()
			w := get(serve(tt.h, middleware.Log[handler.EmptyState, *handler.Locals](log)))
			assert.Equal(t, tt.status, w.Code)

			logs := entries(t, buf)
			require.Len(t, logs, 2)
			assert.Equal(t, tt.level, logs[1]["level"])
			assert.Equal(t, tt.message, logs[1]["msg"])
			assert.EqualValues(t, tt.status, logs[1]["status_code"])
			assert.NotEmpty(t, logs[1]["error"])
		})
	}
}

func TestLog_Panic(t *testing.T) {
	t.Parallel()

	log, buf := jsonLogger()
	h := serve(func(*req) (*handler.Response, error) {
		panic("kaboom")
	}, middleware.Log[handler.EmptyState, *handler.Locals](log))

	assert.Equal(t, http.StatusInternalServerError, get(h).Code)

	logs := entries(t, buf)
	require.Len(t, logs, 2)
	assert.Equal(t, "ERROR", logs[1]["level"])
	assert.Contains(t, logs[1]["error"], "kaboom")
	assert.NotEmpty(t, logs[1]["stack"])
}

func TestLog_NotFoundThroughAppMiddleware(t *testing.T) {
	t.Parallel()

	log, buf := jsonLogger()
	app := router.Default()
	app.With(middleware.Log[handler.EmptyState, *handler.Locals](log))
	app.At("/").Get(okHandler)

	w := do(app.MustBuild(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	logs := entries(t, buf)
	require.Len(t, logs, 2)
	assert.Equal(t, "WARN", logs[1]["level"])
	assert.EqualValues(t, 404, logs[1]["status_code"])
}

func TestLog_Skip(t *testing.T) {
	t.Parallel()

	log, buf := jsonLogger()
	h := serve(okHandler, middleware.LogWithConfig[handler.EmptyState, *handler.Locals](middleware.LogConfig{
		Logger: log,
		Skip:   func(r *http.Request) bool { return r.URL.Path == "/" },
	}))

	assert.Equal(t, http.StatusOK, get(h).Code)
	assert.Empty(t, buf.String())
}
