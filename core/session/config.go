package session

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/highnoon/core/cookie"
)

// Store backends selectable through Config.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config provides environment-based configuration for sessions.
type Config struct {
	CookieName    string        `env:"SESSION_COOKIE_NAME" envDefault:"sid"`
	TTL           time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	Store         string        `env:"SESSION_STORE" envDefault:"memory"`
	RedisURL      string        `env:"SESSION_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPrefix   string        `env:"SESSION_REDIS_PREFIX" envDefault:"session:"`
	RedisRetry    time.Duration `env:"SESSION_REDIS_RETRY_INTERVAL" envDefault:"1s"`
	RedisWaitTime time.Duration `env:"SESSION_REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
}

// NewFromConfig builds the configured store and a Manager on top of it.
// For the Redis backend the server must answer within RedisWaitTime.
func NewFromConfig(ctx context.Context, cfg Config, cookies *cookie.Manager, opts ...Option) (*Manager, error) {
	var store Store
	switch cfg.Store {
	case "", StoreMemory:
		store = NewMemoryStore()
	case StoreRedis:
		if cfg.RedisWaitTime > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.RedisWaitTime)
			defer cancel()
		}
		client, err := ConnectRedis(ctx, cfg.RedisURL, cfg.RedisRetry)
		if err != nil {
			return nil, err
		}
		store = NewRedisStore(client, WithRedisPrefix(cfg.RedisPrefix))
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}

	base := []Option{WithCookieName(cfg.CookieName), WithTTL(cfg.TTL)}
	return New(store, cookies, append(base, opts...)...)
}
