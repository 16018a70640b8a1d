// Package middleware provides ready-made interceptors for router.App and its
// groups.
//
// Every interceptor is generic over the application State and per-request
// context, so it composes with any App:
//
//	app := router.New[*State, *ReqCtx](state)
//	app.With(
//		middleware.RequestID[*State, *ReqCtx](),
//		middleware.Log[*State, *ReqCtx](log),
//		middleware.CORS[*State, *ReqCtx](middleware.CORSConfig{AllowedOrigins: []string{"*"}}),
//	)
//	admin := app.At("/admin").With(
//		middleware.BasicAuth[*State, *ReqCtx]("admin", middleware.BasicAuthUsers(users)),
//	)
//
// Interceptors that have something to say about a failed request return an
// error (usually a handler.HTTPError) and let the router's error handler
// render it; rejections that need a specific response use handler.Abort.
//
// Adapt bridges existing net/http middlewares, e.g. chi's RealIP:
//
//	app.With(middleware.Adapt[*State, *ReqCtx](chimw.RealIP))
package middleware
