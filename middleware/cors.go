package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/dmitrymomot/highnoon/core/handler"
)

// CORSConfig mirrors the commonly tuned cors.Options fields, so it can be
// filled from configuration files.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age"`
}

// CORS answers preflight requests and decorates responses with CORS headers.
// Register it on the App, not a group: preflights use OPTIONS, which routes
// rarely declare, so they must be intercepted before method matching fails.
func CORS[S handler.State[C], C any](cfg CORSConfig) handler.Middleware[S, C] {
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{
			http.MethodGet, http.MethodHead, http.MethodPost,
			http.MethodPut, http.MethodPatch, http.MethodDelete,
		}
	}

	return CORSWithOptions[S, C](cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   methods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

// CORSWithOptions exposes the full go-chi/cors option set.
func CORSWithOptions[S handler.State[C], C any](opts cors.Options) handler.Middleware[S, C] {
	return Adapt[S, C](cors.Handler(opts))
}

// CORSAllowAll permits any origin, method and header without credentials.
// Meant for development.
func CORSAllowAll[S handler.State[C], C any]() handler.Middleware[S, C] {
	return Adapt[S, C](cors.AllowAll().Handler)
}
