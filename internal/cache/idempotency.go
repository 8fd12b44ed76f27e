package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Idempotency remembers request keys for a while so retried writes are rejected.
type Idempotency struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewIdempotency(rdb redis.UniversalClient, ttl time.Duration) *Idempotency {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Idempotency{rdb: rdb, ttl: ttl}
}

func (s *Idempotency) Key(scope, key string) string {
	return "idem:" + scope + ":" + key
}

// Seen claims key and reports whether it was already claimed.
func (s *Idempotency) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// Release forgets key so a failed request can be retried with it.
func (s *Idempotency) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
