// Package server runs an http.Handler with graceful shutdown.
//
// The listener is bound before serving starts, so an address that is already
// in use is reported as ErrBind instead of surfacing later from a goroutine:
//
//	srv := server.New(":8080", server.WithLogger(log))
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, dispatcher))
//	if err := g.Wait(); err != nil {
//		// bind or serve failure
//	}
//
// Run returns nil once ctx is canceled and in-flight requests have finished
// (bounded by WithShutdownTimeout). Upgraded connections such as WebSockets
// are not tracked by the shutdown and end with the process.
//
// Config carries the same settings with env tags:
//
//	cfg := config.MustLoad[server.Config]()
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//
// TLS is served when WithTLS is given or both TLS files are set in Config.
package server
