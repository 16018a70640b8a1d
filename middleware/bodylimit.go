package middleware

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/dmitrymomot/highnoon/core/handler"
)

// DefaultBodyLimit is applied when BodyLimitConfig.MaxSize is not set.
const DefaultBodyLimit int64 = 4 << 20

// BodyLimitConfig configures the request body size limit middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// MaxSize is the limit in bytes (default: 4MB)
	MaxSize int64
	// ContentTypeLimit overrides MaxSize per media type, e.g. "multipart/form-data"
	ContentTypeLimit map[string]int64
}

// BodyLimit rejects bodies larger than maxSize bytes with 413. Requests
// announcing a larger Content-Length fail before the handler runs; streamed
// bodies fail when the handler reads past the limit.
func BodyLimit[S handler.State[C], C any](maxSize int64) handler.Middleware[S, C] {
	return BodyLimitWithConfig[S, C](BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig creates a body limit middleware with custom configuration.
func BodyLimitWithConfig[S handler.State[C], C any](cfg BodyLimitConfig) handler.Middleware[S, C] {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultBodyLimit
	}

	return func(next handler.HandlerFunc[S, C]) handler.HandlerFunc[S, C] {
		return func(req *handler.Request[S, C]) (*handler.Response, error) {
			raw := req.Raw()
			if cfg.Skip != nil && cfg.Skip(raw) {
				return next(req)
			}

			limit := cfg.MaxSize
			if cfg.ContentTypeLimit != nil {
				if mediaType, _, err := mime.ParseMediaType(raw.Header.Get("Content-Type")); err == nil {
					if l, ok := cfg.ContentTypeLimit[mediaType]; ok {
						limit = l
					}
				}
			}

			if raw.ContentLength > limit {
				return nil, handler.ErrRequestEntityTooLarge.
					WithMessage(fmt.Sprintf("Request body too large. Size: %s, Maximum allowed: %s",
						formatBytes(raw.ContentLength), formatBytes(limit))).
					WithDetails(map[string]any{"size": raw.ContentLength, "limit": limit})
			}

			if raw.Body != nil && raw.Body != http.NoBody {
				raw.Body = http.MaxBytesReader(nil, raw.Body, limit)
			}
			return next(req)
		}
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
