package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/logger"
)

// Dispatcher serves requests for a built App. It is immutable and safe for
// concurrent use.
//
// For every request it resolves the route, creates the per-request context,
// runs the composed middleware chain and writes the resulting response. Paths
// without a route get 404, paths without a route for the method get 405 with
// an Allow header; both run through the app-level middlewares. Failures and
// panics become responses through the error handler and are logged.
type Dispatcher[S handler.State[C], C any] struct {
	tree             *Tree[handler.HandlerFunc[S, C]]
	state            S
	notFound         handler.HandlerFunc[S, C]
	methodNotAllowed handler.HandlerFunc[S, C]
	errorHandler     handler.ErrorHandler
	logger           *slog.Logger
}

// State returns the shared application state.
func (d *Dispatcher[S, C]) State() S {
	return d.state
}

// Routes lists the registered routes.
func (d *Dispatcher[S, C]) Routes() []Route {
	return d.tree.Routes()
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher[S, C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ww := newResponseWriter(w)

	match := d.tree.Resolve(r.Method, r.URL.EscapedPath())

	h := match.Handler
	switch match.Outcome {
	case NotFound:
		h = d.notFound
	case MethodNotAllowed:
		h = d.methodNotAllowed
		r = r.WithContext(context.WithValue(r.Context(), allowedKey{}, match.Allowed))
	}

	var (
		req     *handler.Request[S, C]
		handoff bool
		err     error
		outcome = match.Outcome.String()
	)

	defer func() {
		p := recover()
		if p != nil && p != http.ErrAbortHandler {
			err = &panicError{value: p, stack: debug.Stack()}
			if !ww.Written() {
				_ = DefaultErrorHandler(r.Context(), err).Render(ww, r)
			}
		}
		if req != nil && !handoff {
			req.Release()
		}
		if p == http.ErrAbortHandler {
			d.logRequest(r, ww, match.Pattern, "handler_aborted", http.ErrAbortHandler, time.Since(start))
			panic(p)
		}
		d.logRequest(r, ww, match.Pattern, outcome, err, time.Since(start))
	}()

	req = handler.NewRequest[S, C](r, d.state, match.Pattern, match.Params)

	resp, err := d.execute(h, req)
	if err != nil {
		var pe *panicError
		if errors.As(err, &pe) && pe.value == http.ErrAbortHandler {
			panic(http.ErrAbortHandler)
		}
		resp = d.errorHandler(req, err)
		if resp == nil {
			resp = DefaultErrorHandler(req, err)
		}
	}

	// A middleware such as CORS may answer the request itself.
	if match.Outcome == MethodNotAllowed {
		if resp.Status() != http.StatusMethodNotAllowed {
			outcome = "intercepted"
		} else if resp.Header().Get("Allow") == "" {
			resp.SetHeader("Allow", strings.Join(match.Allowed, ", "))
		}
	}

	// The client is gone: nothing useful can be written.
	if r.Context().Err() != nil {
		outcome = "aborted"
		return
	}

	if up := resp.Upgrade(); up != nil {
		loop, uerr := up(ww, r, resp.Header())
		if uerr != nil {
			outcome = "upgrade_failed"
			if err == nil {
				err = uerr
			}
			return
		}
		outcome = "upgraded"
		if loop != nil {
			handoff = true
			go d.runLoop(req, loop)
		}
		return
	}

	if rerr := resp.Render(ww, r); rerr != nil {
		outcome = "write_failed"
		if err == nil {
			err = rerr
		}
	}
}

func (d *Dispatcher[S, C]) execute(h handler.HandlerFunc[S, C], req *handler.Request[S, C]) (resp *handler.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			resp, err = nil, &panicError{value: p, stack: debug.Stack()}
		}
	}()

	resp, err = h(req)
	if err == nil && resp == nil {
		err = handler.ErrNilResponse
	}
	return resp, err
}

// runLoop owns an upgraded connection. The request context dies with the
// HTTP exchange, so the loop gets a detached context that keeps the values.
func (d *Dispatcher[S, C]) runLoop(req *handler.Request[S, C], loop handler.Loop) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(req))
	defer func() {
		cancel()
		if p := recover(); p != nil {
			d.logger.Error("upgraded connection panicked",
				logger.Component("router"),
				logger.Path(req.Path()),
				slog.Any("panic", p),
				logger.Stack(debug.Stack()),
			)
		}
		req.Release()
	}()
	loop(ctx)
}

func (d *Dispatcher[S, C]) logRequest(r *http.Request, ww *responseWriter, pattern, outcome string, err error, latency time.Duration) {
	status := ww.Status()
	attrs := []slog.Attr{
		logger.Component("router"),
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Pattern(pattern),
		logger.StatusCode(status),
		logger.BytesOut(ww.bytes),
		logger.Latency(latency),
		logger.Outcome(outcome),
	}

	ctx := r.Context()
	switch {
	case outcome == "aborted":
		d.logger.LogAttrs(ctx, slog.LevelWarn, "client disconnected before response", attrs...)
	case errors.Is(err, http.ErrAbortHandler):
		d.logger.LogAttrs(ctx, slog.LevelWarn, "handler aborted response", attrs...)
	case err != nil && (status >= http.StatusInternalServerError || status == 0):
		var pe PanicError
		if errors.As(err, &pe) {
			attrs = append(attrs, logger.Stack(pe.Stack()))
		}
		attrs = append(attrs, logger.Error(err))
		d.logger.LogAttrs(ctx, slog.LevelError, "request failed", attrs...)
	default:
		attrs = append(attrs, logger.Error(err))
		d.logger.LogAttrs(ctx, slog.LevelDebug, "request completed", attrs...)
	}
}
