package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/highnoon/core/handler"
)

// DefaultRequestIDHeader carries the request ID in both directions.
const DefaultRequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds IDs accepted from clients.
const maxRequestIDLength = 128

type requestIDContextKey struct{}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// HeaderName specifies the header name for the request ID (default: "X-Request-ID")
	HeaderName string
	// UseExisting keeps a well-formed ID sent by the client
	UseExisting bool
}

// RequestID assigns every request a UUID, exposes it through GetRequestID and
// echoes it in the response header.
func RequestID[S handler.State[C], C any]() handler.Middleware[S, C] {
	return RequestIDWithConfig[S, C](RequestIDConfig{})
}

// RequestIDWithConfig creates a request ID middleware with custom configuration.
func RequestIDWithConfig[S handler.State[C], C any](cfg RequestIDConfig) handler.Middleware[S, C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultRequestIDHeader
	}
	if cfg.Generator == nil {
		cfg.Generator = uuid.NewString
	}

	return func(next handler.HandlerFunc[S, C]) handler.HandlerFunc[S, C] {
		return func(req *handler.Request[S, C]) (*handler.Response, error) {
			if cfg.Skip != nil && cfg.Skip(req.Raw()) {
				return next(req)
			}

			var id string
			if cfg.UseExisting {
				if existing := req.Header(cfg.HeaderName); validRequestID(existing) {
					id = existing
				}
			}
			if id == "" {
				id = cfg.Generator()
			}

			req.SetValue(requestIDContextKey{}, id)

			resp, err := next(req)
			if resp != nil {
				resp.SetHeader(cfg.HeaderName, id)
			}
			return resp, err
		}
	}
}

// GetRequestID returns the ID assigned by RequestID.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if c := id[i]; c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}
