package health

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/logger"
	"github.com/dmitrymomot/highnoon/core/response"
)

// Readiness runs every check in order with the request context. It answers
// "READY" when all pass and 503 on the first failure, which is logged.
func Readiness[S handler.State[C], C any](log *slog.Logger, checks ...func(context.Context) error) handler.HandlerFunc[S, C] {
	if log == nil {
		log = logger.Nop()
	}
	return func(req *handler.Request[S, C]) (*handler.Response, error) {
		for _, check := range checks {
			if err := check(req); err != nil {
				log.ErrorContext(req, "readiness check failed",
					logger.Component("health"),
					logger.Error(err),
				)
				return nil, handler.ErrServiceUnavailable
			}
		}
		return response.String("READY")
	}
}
