package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/response"
	"github.com/dmitrymomot/highnoon/middleware"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	waits := func(r *req) (*handler.Response, error) {
		select {
		case <-r.Done():
			return nil, r.Err()
		case <-time.After(time.Second):
			return response.String("late")
		}
	}

	t.Run("deadline honored", func(t *testing.T) {
		t.Parallel()
		h := serve(waits, middleware.Timeout[handler.EmptyState, *handler.Locals](20*time.Millisecond))
		assert.Equal(t, http.StatusGatewayTimeout, get(h).Code)
	})

	t.Run("fast handler", func(t *testing.T) {
		t.Parallel()
		h := serve(okHandler, middleware.Timeout[handler.EmptyState, *handler.Locals](time.Second))
		w := get(h)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("deadline visible to handler", func(t *testing.T) {
		t.Parallel()
		h := serve(func(r *req) (*handler.Response, error) {
			if _, ok := r.Deadline(); !ok {
				return response.Status(http.StatusInternalServerError)
			}
			return response.String("ok")
		}, middleware.Timeout[handler.EmptyState, *handler.Locals](time.Second))
		assert.Equal(t, http.StatusOK, get(h).Code)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		h := serve(func(r *req) (*handler.Response, error) {
			if _, ok := r.Deadline(); ok {
				return response.Status(http.StatusInternalServerError)
			}
			return response.String("ok")
		}, middleware.Timeout[handler.EmptyState, *handler.Locals](0))
		assert.Equal(t, http.StatusOK, get(h).Code)
	})

	t.Run("outer middleware keeps its context", func(t *testing.T) {
		t.Parallel()

		var after error = errors.New("not called")
		outer := func(next handler.HandlerFunc[handler.EmptyState, *handler.Locals]) handler.HandlerFunc[handler.EmptyState, *handler.Locals] {
			return func(r *req) (*handler.Response, error) {
				resp, err := next(r)
				after = r.Err()
				if _, ok := r.Deadline(); ok {
					after = errors.New("inner deadline leaked")
				}
				return resp, err
			}
		}
		h := serve(okHandler, outer, middleware.Timeout[handler.EmptyState, *handler.Locals](time.Minute))

		assert.Equal(t, http.StatusOK, get(h).Code)
		assert.NoError(t, after)
	})
}

func echoBody(r *req) (*handler.Response, error) {
	b, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	return response.Bytes(b, "text/plain")
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	counting := func(r *req) (*handler.Response, error) {
		calls.Add(1)
		return echoBody(r)
	}
	h := serve(counting, middleware.BodyLimit[handler.EmptyState, *handler.Locals](8))

	post := func(body string, knownLength bool) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", strings.NewReader(body))
		if !knownLength {
			r.ContentLength = -1
		}
		return do(h, r)
	}

	w := post("small", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "small", w.Body.String())

	before := calls.Load()
	w = post("far too large", true)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "Request body too large")
	assert.Equal(t, before, calls.Load(), "rejected before the handler runs")

	w = post("far too large", false)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, "unknown length fails while reading")
}

func TestBodyLimit_ContentTypeLimit(t *testing.T) {
	t.Parallel()

	h := serve(echoBody, middleware.BodyLimitWithConfig[handler.EmptyState, *handler.Locals](middleware.BodyLimitConfig{
		MaxSize:          4,
		ContentTypeLimit: map[string]int64{"text/plain": 64},
	}))

	r := httptest.NewRequest(http.MethodGet, "/", strings.NewReader("plain text body"))
	r.Header.Set("Content-Type", "text/plain; charset=utf-8")
	assert.Equal(t, http.StatusOK, do(h, r).Code)

	r = httptest.NewRequest(http.MethodGet, "/", strings.NewReader(`{"a":"json"}`))
	r.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusRequestEntityTooLarge, do(h, r).Code)
}

func TestBasicAuth(t *testing.T) {
	t.Parallel()

	h := serve(func(r *req) (*handler.Response, error) {
		user, _ := middleware.GetBasicAuthUser(r)
		return response.String("hello " + user)
	}, middleware.BasicAuth[handler.EmptyState, *handler.Locals]("admin",
		middleware.BasicAuthUsers(map[string]string{"alice": "s3cret"})))

	tests := []struct {
		name   string
		user   string
		pass   string
		set    bool
		status int
	}{
		{"no credentials", "", "", false, http.StatusUnauthorized},
		{"wrong password", "alice", "nope", true, http.StatusUnauthorized},
		{"unknown user", "bob", "s3cret", true, http.StatusUnauthorized},
		{"valid", "alice", "s3cret", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.set {
				r.SetBasicAuth(tt.user, tt.pass)
			}
			w := do(h, r)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, `Basic realm="admin", charset="UTF-8"`, w.Header().Get("WWW-Authenticate"))
			} else {
				assert.Equal(t, "hello alice", w.Body.String())
			}
		})
	}
}
