// Package logger provides slog construction and attribute helpers used across
// the router, the server and the provided middlewares.
//
// New builds a logger from Config: JSON for production, colorized text via
// tint for development. Attribute helpers give common fields stable keys:
//
//	log := logger.New(os.Stdout, logger.Config{Level: "debug", Format: logger.FormatText})
//	log.Info("request completed",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.StatusCode(200),
//		logger.Error(err), // dropped when err is nil
//	)
package logger
