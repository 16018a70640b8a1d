// Package highnoon is an embeddable HTTP routing and dispatch core built on
// generics. Every handler sees a typed, application-wide State and a typed
// per-request context created by that State.
//
// # Package Organization
//
// Core:
//
//   - github.com/dmitrymomot/highnoon/core/router: path matcher, route builder with groups and mounting, dispatcher
//   - github.com/dmitrymomot/highnoon/core/handler: Request, Response, HandlerFunc, Middleware and HTTP errors
//   - github.com/dmitrymomot/highnoon/core/response: response constructors, streaming, WebSocket upgrades
//   - github.com/dmitrymomot/highnoon/core/server: graceful HTTP server lifecycle
//   - github.com/dmitrymomot/highnoon/core/static: file serving below a wildcard route
//   - github.com/dmitrymomot/highnoon/core/session: server-side sessions in memory or Redis
//   - github.com/dmitrymomot/highnoon/core/cookie: signed and encrypted cookies
//   - github.com/dmitrymomot/highnoon/core/health: liveness and readiness probes
//   - github.com/dmitrymomot/highnoon/core/config: environment configuration loader
//   - github.com/dmitrymomot/highnoon/core/logger: slog setup and attribute helpers
//   - github.com/dmitrymomot/highnoon/core/testclient: in-process test client
//
// Middleware:
//
//   - github.com/dmitrymomot/highnoon/middleware: request ids, logging, CORS, timeouts, body limits,
//     basic auth, security headers and an adapter for net/http middlewares
//
// Commands:
//
//   - github.com/dmitrymomot/highnoon/cmd/highnoon: demo server and route listing
//
// # Quick Start
//
//	app := router.Default()
//	app.With(middleware.RequestID[handler.EmptyState, *handler.Locals]())
//
//	app.At("/hello/:name").Get(func(req *handler.Request[handler.EmptyState, *handler.Locals]) (*handler.Response, error) {
//		return response.String("Hello " + req.Param("name"))
//	})
//
//	if err := app.Listen(ctx, ":8080"); err != nil {
//		log.Fatal(err)
//	}
package highnoon
