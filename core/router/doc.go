// Package router maps HTTP requests to handlers and runs them through
// middleware chains.
//
// An App is configured first and then frozen by Build into an immutable
// Dispatcher, which implements http.Handler:
//
//	app := router.New[*State, *ReqCtx](state, router.WithLogger(log))
//	app.With(middleware.RequestID[*State, *ReqCtx](), middleware.Log[*State, *ReqCtx](log))
//
//	api := app.At("/api").With(auth)
//	api.At("/users/:id").Get(showUser).Delete(deleteUser)
//	api.At("/files/*path").Get(serveFile)
//
//	d, err := app.Build()
//
// # Patterns
//
// Patterns are "/"-separated segments. A segment is a literal, a parameter
// (":name" or "{name}") matching one non-empty segment, or a trailing
// wildcard ("*name" or "*") matching the non-empty rest of the path. Literals
// win over parameters, parameters over wildcards. With the default
// PrecedenceBacktrack, a literal branch that leads nowhere falls back to its
// siblings; PrecedenceStrict never revisits them.
//
// # Middlewares
//
// Middlewares wrap handlers like an onion: the first registered runs first on
// the way in and last on the way out. App middlewares wrap every route and the
// not-found and method-not-allowed responders; group middlewares wrap only
// routes of the group, inside those of enclosing groups. A middleware can
// return without calling next to short-circuit the chain.
//
// # Errors
//
// Handlers return errors instead of writing failure responses. Errors flow
// back through the middlewares and are converted by the error handler
// (DefaultErrorHandler unless WithErrorHandler is given). Panics are recovered
// and surface as PanicError.
//
// Misconfiguration (bad patterns, duplicate routes, nil handlers) is reported
// by Build as a joined set of *ConfigError values.
package router
