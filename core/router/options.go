package router

import (
	"log/slog"
	"strings"

	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/logger"
)

type options struct {
	logger       *slog.Logger
	errorHandler handler.ErrorHandler
	tree         TreeConfig
}

func defaultOptions() options {
	return options{
		logger:       logger.Nop(),
		errorHandler: DefaultErrorHandler,
	}
}

// Option configures an App.
type Option func(*options)

// WithLogger sets the logger used for per-request events and configuration warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithErrorHandler sets the function turning escaped failures into responses.
func WithErrorHandler(h handler.ErrorHandler) Option {
	return func(o *options) {
		if h != nil {
			o.errorHandler = h
		}
	}
}

// WithTrailingSlash sets how trailing slashes on request paths are handled.
func WithTrailingSlash(ts TrailingSlash) Option {
	return func(o *options) {
		o.tree.TrailingSlash = ts
	}
}

// WithPrecedence sets how literal and parameter segments compete.
func WithPrecedence(p Precedence) Option {
	return func(o *options) {
		o.tree.Precedence = p
	}
}

// Config holds matcher configuration with environment variable support.
type Config struct {
	// TrailingSlash is "strict" or "lenient".
	TrailingSlash string `env:"ROUTER_TRAILING_SLASH" envDefault:"strict"`
	// Precedence is "backtrack" or "strict".
	Precedence string `env:"ROUTER_PRECEDENCE" envDefault:"backtrack"`
}

// WithConfig applies matcher settings from Config. Unknown values keep the defaults.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		if strings.EqualFold(cfg.TrailingSlash, "lenient") {
			o.tree.TrailingSlash = SlashLenient
		}
		if strings.EqualFold(cfg.Precedence, "strict") {
			o.tree.Precedence = PrecedenceStrict
		}
	}
}
