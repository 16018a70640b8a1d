package router

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/server"
)

// App collects routes and middlewares. Registration is append-only until
// Build, which freezes the App and returns the immutable Dispatcher.
//
// Invalid registrations are reported by Build, all at once. Registering after
// Build panics with a *ConfigError wrapping ErrFrozen.
type App[S handler.State[C], C any] struct {
	mu               sync.Mutex
	state            S
	opts             options
	middlewares      []handler.Middleware[S, C]
	routes           []routeDef[S, C]
	notFound         handler.HandlerFunc[S, C]
	methodNotAllowed handler.HandlerFunc[S, C]
	errs             []error
	frozen           bool
	root             *Group[S, C]
}

type routeDef[S handler.State[C], C any] struct {
	method  string
	pattern string
	h       handler.HandlerFunc[S, C]
	group   *Group[S, C]
	// inner holds middlewares of a mounted app, resolved when it was mounted.
	inner []handler.Middleware[S, C]
}

// New creates an App around the shared application state.
func New[S handler.State[C], C any](state S, opts ...Option) *App[S, C] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	a := &App[S, C]{state: state, opts: o}
	a.root = &Group[S, C]{app: a}
	return a
}

// Default creates an App without application state.
func Default(opts ...Option) *App[handler.EmptyState, *handler.Locals] {
	return New[handler.EmptyState, *handler.Locals](handler.EmptyState{}, opts...)
}

// State returns the shared application state.
func (a *App[S, C]) State() S {
	return a.state
}

// With appends app-level middlewares. They wrap every route as well as the
// not-found and method-not-allowed responders, in registration order.
func (a *App[S, C]) With(middlewares ...handler.Middleware[S, C]) *App[S, C] {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mustBeMutable()

	for _, mw := range middlewares {
		if mw == nil {
			a.errs = append(a.errs, &ConfigError{Err: ErrNilHandler})
			continue
		}
		a.middlewares = append(a.middlewares, mw)
	}
	return a
}

// At returns the group for a path prefix. Handlers registered directly on
// the group answer the prefix itself.
func (a *App[S, C]) At(prefix string) *Group[S, C] {
	return a.root.At(prefix)
}

// NotFound replaces the responder for paths without a route.
func (a *App[S, C]) NotFound(h handler.HandlerFunc[S, C]) *App[S, C] {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mustBeMutable()
	a.notFound = h
	return a
}

// MethodNotAllowed replaces the responder for paths that have routes, but
// none for the request method. AllowedMethods reports the registered methods.
func (a *App[S, C]) MethodNotAllowed(h handler.HandlerFunc[S, C]) *App[S, C] {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mustBeMutable()
	a.methodNotAllowed = h
	return a
}

// Build freezes the App and composes every route's middleware chain once.
func (a *App[S, C]) Build() (*Dispatcher[S, C], error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.frozen {
		return nil, &ConfigError{Err: ErrFrozen}
	}
	a.frozen = true

	tree := NewTree[handler.HandlerFunc[S, C]](TreeConfig{
		Precedence:    a.opts.tree.Precedence,
		TrailingSlash: a.opts.tree.TrailingSlash,
		Logger:        a.opts.logger,
	})

	errs := slices.Clone(a.errs)
	for _, def := range a.routes {
		mws := slices.Concat(a.middlewares, def.group.chain(), def.inner)
		if err := tree.Insert(def.method, def.pattern, Compose(mws, recoverer(def.h))); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	notFound := a.notFound
	if notFound == nil {
		notFound = notFoundHandler[S, C]
	}
	methodNotAllowed := a.methodNotAllowed
	if methodNotAllowed == nil {
		methodNotAllowed = methodNotAllowedHandler[S, C]
	}

	return &Dispatcher[S, C]{
		tree:             tree,
		state:            a.state,
		notFound:         Compose(a.middlewares, recoverer(notFound)),
		methodNotAllowed: Compose(a.middlewares, recoverer(methodNotAllowed)),
		errorHandler:     a.opts.errorHandler,
		logger:           a.opts.logger,
	}, nil
}

// MustBuild is like Build but panics on configuration errors.
func (a *App[S, C]) MustBuild() *Dispatcher[S, C] {
	d, err := a.Build()
	if err != nil {
		panic(err)
	}
	return d
}

// Listen builds the App and serves it on addr until ctx is canceled, then
// shuts down gracefully. It returns nil after a graceful shutdown and an error
// when the App is misconfigured or the address cannot be bound.
func (a *App[S, C]) Listen(ctx context.Context, addr string, opts ...server.Option) error {
	d, err := a.Build()
	if err != nil {
		return err
	}

	srv := server.New(addr, append([]server.Option{server.WithLogger(a.opts.logger)}, opts...)...)
	return srv.Run(ctx, d)()
}

func (a *App[S, C]) mustBeMutable() {
	if a.frozen {
		panic(&ConfigError{Err: ErrFrozen})
	}
}

func (a *App[S, C]) addRoute(def routeDef[S, C]) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mustBeMutable()

	if def.h == nil {
		a.errs = append(a.errs, &ConfigError{Method: def.method, Pattern: def.pattern, Err: ErrNilHandler})
		return
	}
	a.routes = append(a.routes, def)
}

// freeze marks the App as mounted elsewhere and returns a snapshot of its
// routes with their middleware chains resolved. An App that is already built
// or mounted cannot be frozen again.
func (a *App[S, C]) freeze() ([]routeDef[S, C], []error, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.frozen {
		return nil, nil, false
	}
	a.frozen = true

	defs := make([]routeDef[S, C], 0, len(a.routes))
	for _, def := range a.routes {
		inner := slices.Concat(a.middlewares, def.group.chain(), def.inner)
		defs = append(defs, routeDef[S, C]{method: def.method, pattern: def.pattern, h: def.h, inner: inner})
	}
	return defs, slices.Clone(a.errs), true
}
