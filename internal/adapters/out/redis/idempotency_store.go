// Package redis keeps idempotency keys for mutating HTTP requests.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "kirana:idem:"

// IdempotencyStore remembers request keys for ttl. The first caller to claim
// a key wins; later callers see it as already used.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

// NewClient parses a redis:// URL.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

// Claim reports whether key was unused and is now taken by the caller.
func (s *IdempotencyStore) Claim(ctx context.Context, scope, key string) (bool, error) {
	return s.rdb.SetNX(ctx, keyPrefix+scope+":"+key, "1", s.ttl).Result()
}

// Release frees a claimed key so a failed request can be retried with it.
func (s *IdempotencyStore) Release(ctx context.Context, scope, key string) error {
	return s.rdb.Del(ctx, keyPrefix+scope+":"+key).Err()
}
