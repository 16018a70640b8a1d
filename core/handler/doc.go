// Package handler defines the request and response abstractions shared by the
// router, the provided interceptors and application handlers.
//
// Every handler and interceptor has the same shape: it receives a *Request and
// returns a *Response or an error. Interceptors wrap a "next" handler and are
// free to run code before and after it, to short-circuit by returning their own
// Response, or to replace a failure with a different one.
//
//	type HandlerFunc[S State[C], C any] func(req *Request[S, C]) (*Response, error)
//	type Middleware[S State[C], C any] func(next HandlerFunc[S, C]) HandlerFunc[S, C]
//
// # State and per-request context
//
// An application supplies one State value for the whole process. The router
// calls State.NewContext exactly once per request and makes the result
// available through Request.Ctx. The State itself is reachable through
// Request.State and is shared by all concurrent requests, so anything mutable
// stored in it must be safe for concurrent use.
//
//	type AppState struct {
//		hits atomic.Int64
//	}
//
//	type AppCtx struct {
//		userID string
//	}
//
//	func (s *AppState) NewContext() *AppCtx { return &AppCtx{} }
//
//	func profile(req *handler.Request[*AppState, *AppCtx]) (*handler.Response, error) {
//		req.State().hits.Add(1)
//		return response.String("user " + req.Param("id"))
//	}
//
// EmptyState is a ready-made State whose per-request context is a *Locals
// key/value store, for applications that need nothing more.
//
// # Failures
//
// A handler reports failures by returning an error. HTTPError carries a
// suggested status and a message that is safe to show to clients. Abort wraps
// a complete Response that should be sent as-is. Any other error becomes a
// generic 500 response; its details are only ever logged.
//
// # Cleanup
//
// Request.Defer registers cleanup that runs when the request finishes, on every
// exit path. Per-request contexts implementing Releaser are released the same
// way.
package handler
