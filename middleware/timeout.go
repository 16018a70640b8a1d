package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/highnoon/core/handler"
)

// Timeout bounds the time inner handlers get to produce a response. The
// deadline is delivered through the request context; handlers that honor it
// and fail are answered with 504 Gateway Timeout. A handler that ignores the
// deadline still completes: cancellation is cooperative.
func Timeout[S handler.State[C], C any](d time.Duration) handler.Middleware[S, C] {
	return func(next handler.HandlerFunc[S, C]) handler.HandlerFunc[S, C] {
		return func(req *handler.Request[S, C]) (*handler.Response, error) {
			if d <= 0 {
				return next(req)
			}

			prev := req.Raw().Context()
			ctx, cancel := context.WithTimeout(prev, d)
			defer cancel()
			// Outer middlewares get their context back.
			defer req.SetContext(prev)
			req.SetContext(ctx)

			resp, err := next(req)
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, handler.ErrGatewayTimeout.WithError(err)
			}
			return resp, err
		}
	}
}
