// Package health provides probe handlers for orchestrators and load balancers.
//
// Handlers:
//   - Liveness: the process is running, no dependency checks
//   - Readiness: every dependency check passes
//   - NoContent: 204 with no body for high-frequency pings
//
// Usage:
//
//	app.At("/health/live").Get(health.Liveness[S, C])
//	app.At("/health/ready").Get(health.Readiness[S, C](log, sessions.Healthcheck))
//	app.At("/ping").Get(health.NoContent[S, C])
//
// Checks have the func(context.Context) error signature:
//
//	func checkDB(ctx context.Context) error {
//		return db.PingContext(ctx)
//	}
package health
