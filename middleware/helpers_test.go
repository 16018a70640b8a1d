package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/response"
	"github.com/dmitrymomot/highnoon/core/router"
)

type (
	req = handler.Request[handler.EmptyState, *handler.Locals]
	mw  = handler.Middleware[handler.EmptyState, *handler.Locals]
)

func okHandler(*req) (*handler.Response, error) {
	return response.String("ok")
}

// serve builds an app with a single GET / route wrapped by mws.
func serve(h func(*req) (*handler.Response, error), mws ...mw) http.Handler {
	app := router.Default()
	app.With(mws...)
	app.At("/").Get(h)
	return app.MustBuild()
}

func do(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func get(h http.Handler) *httptest.ResponseRecorder {
	return do(h, httptest.NewRequest(http.MethodGet, "/", nil))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
