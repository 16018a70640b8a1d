package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/logger"
	"github.com/dmitrymomot/highnoon/core/router"
)

// LogConfig configures the request logging middleware.
type LogConfig struct {
	// Logger receives the events (default: slog.Default())
	Logger *slog.Logger
	// Skip defines a function to skip logging for specific requests, e.g. health checks
	Skip func(r *http.Request) bool
	// SlowRequestThreshold logs successful but slow requests at warn level (default: 5s)
	SlowRequestThreshold time.Duration
	// Component name for structured logging (default: "http")
	Component string
}

// Log records one debug event when a request enters the chain and one event
// when its outcome is known: error for 5xx (with the failure and, for panics,
// the stack), warn for 4xx and slow requests, info otherwise.
//
// Register it outermost to observe the status produced by every inner
// interceptor, including failures converted later by the error handler.
func Log[S handler.State[C], C any](log *slog.Logger) handler.Middleware[S, C] {
	return LogWithConfig[S, C](LogConfig{Logger: log})
}

// LogWithConfig creates a logging middleware with custom configuration.
func LogWithConfig[S handler.State[C], C any](cfg LogConfig) handler.Middleware[S, C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.HandlerFunc[S, C]) handler.HandlerFunc[S, C] {
		return func(req *handler.Request[S, C]) (*handler.Response, error) {
			if cfg.Skip != nil && cfg.Skip(req.Raw()) {
				return next(req)
			}

			start := time.Now()
			requestID, _ := GetRequestID(req)

			base := []slog.Attr{
				logger.Component(cfg.Component),
				logger.Method(req.Method()),
				logger.Path(req.Path()),
				logger.RequestID(requestID),
			}

			cfg.Logger.LogAttrs(req, slog.LevelDebug, "request received",
				append(base,
					logger.Event("request"),
					logger.ClientIP(req.RemoteAddr()),
					logger.UserAgent(req.Header("User-Agent")),
				)...,
			)

			resp, err := next(req)

			status := handler.StatusOf(resp, err)
			latency := time.Since(start)
			attrs := append(base,
				logger.Event("response"),
				logger.Pattern(req.Pattern()),
				logger.StatusCode(status),
				logger.Latency(latency),
			)
			if resp != nil && len(resp.Body()) > 0 {
				attrs = append(attrs, logger.BytesOut(int64(len(resp.Body()))))
			}

			level, msg := slog.LevelInfo, "request completed"
			switch {
			case status >= http.StatusInternalServerError:
				level, msg = slog.LevelError, "request failed"
				attrs = append(attrs, logger.Error(err))
				var pe router.PanicError
				if errors.As(err, &pe) {
					attrs = append(attrs, logger.Stack(pe.Stack()))
				}
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
				attrs = append(attrs, logger.Error(err))
			case latency > cfg.SlowRequestThreshold:
				level = slog.LevelWarn
				attrs = append(attrs, slog.Bool("slow_request", true))
			}

			cfg.Logger.LogAttrs(req, level, msg, attrs...)
			return resp, err
		}
	}
}
