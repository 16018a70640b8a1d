package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces session keys in a shared Redis database.
const DefaultRedisPrefix = "session:"

// RedisStore keeps sessions in Redis, one string key per session. Expiration
// is delegated to Redis key TTLs.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisPrefix replaces the key prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore wraps an existing client. The caller owns the client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: DefaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConnectRedis parses a redis:// or rediss:// URL and pings the server until
// it answers or ctx ends.
func ConnectRedis(ctx context.Context, connURL string, retryInterval time.Duration) (*redis.Client, error) {
	opt, err := redis.ParseURL(connURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisURL, err)
	}

	client := redis.NewClient(opt)
	for {
		err := client.Ping(ctx).Err()
		if err == nil {
			return client, nil
		}

		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, errors.Join(ErrRedisNotReady, err, ctx.Err())
		case <-time.After(retryInterval):
		}
	}
}

// Load returns the data for id.
func (s *RedisStore) Load(ctx context.Context, id string) (string, error) {
	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return data, nil
}

// Save stores data for id with the given TTL.
func (s *RedisStore) Save(ctx context.Context, id, data string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+id, data, ttl).Err()
}

// Delete removes id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.prefix+id).Err()
}

// Healthcheck pings the server. It fits readiness probes.
func (s *RedisStore) Healthcheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
