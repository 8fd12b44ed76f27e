// Package cache puts Redis in front of the customer and product repositories and
// keeps idempotency keys for write requests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ledger/internal/domain"
	"ledger/internal/logging"
)

const (
	notFoundMarker = "notfound"
	notFoundTTL    = time.Minute
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a Redis client and pings it.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     20,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

type store struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

func newStore(rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return store{rdb: rdb, ttl: ttl, logger: logging.OrNop(logger)}
}

// readThrough serves key from Redis or falls back to load and caches the result.
// Redis failures never fail the read. Misses are cached briefly as notFoundMarker.
func readThrough[T any](ctx context.Context, s store, key string, load func() (T, error)) (T, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			var zero T
			return zero, domain.ErrNotFound
		}
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		s.logger.Warn("decode cached value, continuing with db", zap.String("key", key), zap.Error(err))
	case errors.Is(err, redis.Nil):
	default:
		s.logger.Warn("redis get failed, continuing with db", zap.String("key", key), zap.Error(err))
	}

	value, err := load()
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			if setErr := s.rdb.Set(ctx, key, notFoundMarker, notFoundTTL).Err(); setErr != nil {
				s.logger.Warn("cache notfound", zap.String("key", key), zap.Error(setErr))
			}
		}
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("encode value for cache", zap.String("key", key), zap.Error(err))
		return value, nil
	}
	if err := s.rdb.Set(ctx, key, encoded, s.ttl).Err(); err != nil {
		s.logger.Warn("cache value", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

func (s store) invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("invalidate cache", zap.Strings("keys", keys), zap.Error(err))
	}
}
