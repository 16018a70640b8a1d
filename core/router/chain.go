package router

import (
	"runtime/debug"

	"github.com/dmitrymomot/highnoon/core/handler"
)

// Compose builds a single handler from a middleware stack and endpoint.
// The first middleware is the outermost: it runs first on the way in and last
// on the way out.
func Compose[S handler.State[C], C any](middlewares []handler.Middleware[S, C], endpoint handler.HandlerFunc[S, C]) handler.HandlerFunc[S, C] {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// recoverer turns a panic in h into a PanicError, so that middlewares wrapping
// h still observe a failure and run their post-processing.
func recoverer[S handler.State[C], C any](h handler.HandlerFunc[S, C]) handler.HandlerFunc[S, C] {
	return func(req *handler.Request[S, C]) (resp *handler.Response, err error) {
		defer func() {
			if p := recover(); p != nil {
				resp, err = nil, &panicError{value: p, stack: debug.Stack()}
			}
		}()
		return h(req)
	}
}
