package router

import (
	"net/http"

	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/response"
	"github.com/dmitrymomot/highnoon/core/static"
)

// Group is a path prefix with its own middlewares. Group middlewares apply
// only to routes registered on the group and its sub-groups, nested inside
// the middlewares of enclosing groups.
type Group[S handler.State[C], C any] struct {
	app         *App[S, C]
	parent      *Group[S, C]
	prefix      string
	middlewares []handler.Middleware[S, C]
}

// Prefix returns the full path prefix of the group.
func (g *Group[S, C]) Prefix() string {
	if g.prefix == "" {
		return "/"
	}
	return g.prefix
}

// At returns a sub-group for prefix relative to g.
func (g *Group[S, C]) At(prefix string) *Group[S, C] {
	full := joinPattern(g.prefix, prefix)
	if full == "/" {
		full = ""
	}
	return &Group[S, C]{app: g.app, parent: g, prefix: full}
}

// With appends middlewares to the group.
func (g *Group[S, C]) With(middlewares ...handler.Middleware[S, C]) *Group[S, C] {
	a := g.app
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mustBeMutable()

	for _, mw := range middlewares {
		if mw == nil {
			a.errs = append(a.errs, &ConfigError{Pattern: g.Prefix(), Err: ErrNilHandler})
			continue
		}
		g.middlewares = append(g.middlewares, mw)
	}
	return g
}

// Method registers h for method on the group path.
func (g *Group[S, C]) Method(method string, h handler.HandlerFunc[S, C]) *Group[S, C] {
	g.app.addRoute(routeDef[S, C]{method: method, pattern: g.Prefix(), h: h, group: g})
	return g
}

// Get registers h for GET.
func (g *Group[S, C]) Get(h handler.HandlerFunc[S, C]) *Group[S, C] {
	return g.Method(http.MethodGet, h)
}

// Post registers h for POST.
func (g *Group[S, C]) Post(h handler.HandlerFunc[S, C]) *Group[S, C] {
	return g.Method(http.MethodPost, h)
}

// Put registers h for PUT.
func (g *Group[S, C]) Put(h handler.HandlerFunc[S, C]) *Group[S, C] {
	return g.Method(http.MethodPut, h)
}

// Patch registers h for PATCH.
func (g *Group[S, C]) Patch(h handler.HandlerFunc[S, C]) *Group[S, C] {
	return g.Method(http.MethodPatch, h)
}

// Delete registers h for DELETE.
func (g *Group[S, C]) Delete(h handler.HandlerFunc[S, C]) *Group[S, C] {
	return g.Method(http.MethodDelete, h)
}

// Head registers h for HEAD.
func (g *Group[S, C]) Head(h handler.HandlerFunc[S, C]) *Group[S, C] {
	return g.Method(http.MethodHead, h)
}

// Options registers h for OPTIONS.
func (g *Group[S, C]) Options(h handler.HandlerFunc[S, C]) *Group[S, C] {
	return g.Method(http.MethodOptions, h)
}

// Any registers h for every method that has no specific route on the path.
func (g *Group[S, C]) Any(h handler.HandlerFunc[S, C]) *Group[S, C] {
	return g.Method(MethodAny, h)
}

// WS registers a WebSocket endpoint on the group path. Requests that are not
// WebSocket handshakes are rejected with 400.
func (g *Group[S, C]) WS(fn response.WebSocketHandler, opts ...response.WebSocketOption) *Group[S, C] {
	return g.Get(func(*handler.Request[S, C]) (*handler.Response, error) {
		return response.WebSocket(fn, opts...)
	})
}

// Static serves files below root for GET and HEAD requests to
// "<prefix>/*path". Paths escaping root are rejected with 403. A root that is
// not an existing directory is reported by Build.
func (g *Group[S, C]) Static(root string) *Group[S, C] {
	files := g.At("/*path")
	if err := static.ValidateDir(root); err != nil {
		a := g.app
		a.mu.Lock()
		a.errs = append(a.errs, &ConfigError{Pattern: files.Prefix(), Err: err})
		a.mu.Unlock()
		return g
	}
	h := static.Dir[S, C](root, "path")
	files.Get(h)
	files.Head(h)
	return g
}

// Mount grafts every route of sub below the group path. Middlewares of sub
// run inside those of the group. Mounting freezes sub; an App that is
// already built or mounted is rejected with ErrFrozen.
func (g *Group[S, C]) Mount(sub *App[S, C]) *Group[S, C] {
	if sub == nil || sub == g.app {
		a := g.app
		a.mu.Lock()
		a.errs = append(a.errs, &ConfigError{Pattern: g.Prefix(), Err: ErrNilApp})
		a.mu.Unlock()
		return g
	}

	defs, errs, ok := sub.freeze()
	if !ok {
		a := g.app
		a.mu.Lock()
		a.errs = append(a.errs, &ConfigError{Pattern: g.Prefix(), Err: ErrFrozen})
		a.mu.Unlock()
		return g
	}
	for _, def := range defs {
		def.pattern = joinPattern(g.prefix, def.pattern)
		def.group = g
		g.app.addRoute(def)
	}
	if len(errs) > 0 {
		a := g.app
		a.mu.Lock()
		a.errs = append(a.errs, errs...)
		a.mu.Unlock()
	}
	return g
}

// chain returns the middlewares of g and its ancestors, outermost first.
func (g *Group[S, C]) chain() []handler.Middleware[S, C] {
	if g == nil {
		return nil
	}
	var groups []*Group[S, C]
	for cur := g; cur != nil; cur = cur.parent {
		groups = append(groups, cur)
	}

	var mws []handler.Middleware[S, C]
	for i := len(groups) - 1; i >= 0; i-- {
		mws = append(mws, groups[i].middlewares...)
	}
	return mws
}
