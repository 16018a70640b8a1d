package handler

import "context"

// HandlerFunc is a type-safe request handler bound to a State and its per-request context.
type HandlerFunc[S State[C], C any] func(req *Request[S, C]) (*Response, error)

// Middleware wraps a handler. The returned handler decides whether, and how,
// to call next.
type Middleware[S State[C], C any] func(next HandlerFunc[S, C]) HandlerFunc[S, C]

// ErrorHandler turns a failure that escaped the interceptor chain into the
// Response sent to the client.
type ErrorHandler func(ctx context.Context, err error) *Response
