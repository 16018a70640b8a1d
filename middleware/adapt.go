package middleware

import (
	"bytes"
	"net/http"

	"github.com/dmitrymomot/highnoon/core/handler"
)

// Adapt turns a net/http middleware into an interceptor.
//
// The wrapped middleware may rewrite the request, set response headers before
// calling the next handler, or answer on its own without calling it. Headers
// it sets are merged into the handler's response unless the handler set them
// itself. Writes made after the next handler returned are not observed.
func Adapt[S handler.State[C], C any](mw func(http.Handler) http.Handler) handler.Middleware[S, C] {
	return func(next handler.HandlerFunc[S, C]) handler.HandlerFunc[S, C] {
		return func(req *handler.Request[S, C]) (*handler.Response, error) {
			var (
				resp   *handler.Response
				err    error
				called bool
			)

			inner := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				called = true
				req.SetRaw(r)
				resp, err = next(req)
			})

			cw := &captureWriter{header: make(http.Header)}
			mw(inner).ServeHTTP(cw, req.Raw())

			if !called {
				return cw.response(), nil
			}
			if err != nil || resp == nil {
				return resp, err
			}

			dst := resp.Header()
			for k, v := range cw.header {
				if _, exists := dst[k]; !exists {
					dst[k] = v
				}
			}
			return resp, nil
		}
	}
}

// captureWriter records what a net/http middleware writes when it answers a
// request itself.
type captureWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (w *captureWriter) Header() http.Header {
	return w.header
}

func (w *captureWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(b)
}

func (w *captureWriter) response() *handler.Response {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}
	resp := handler.NewResponse(status)
	for k, v := range w.header {
		resp.Header()[k] = v
	}
	if w.body.Len() > 0 {
		resp.SetBody(w.body.Bytes())
	}
	return resp
}
