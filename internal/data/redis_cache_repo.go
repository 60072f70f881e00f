package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var errEmptyCacheKey = errors.New("cache key is empty")

// RedisCacheRepo is the Redis core.CacheRepository behind the settings cache
// and the visit counter.
type RedisCacheRepo struct {
	rdb redis.UniversalClient
}

func NewRedisCacheRepo(rdb redis.UniversalClient) *RedisCacheRepo {
	return &RedisCacheRepo{rdb: rdb}
}

func (r *RedisCacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errEmptyCacheKey
	}
	if err := r.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Get returns nil, nil for a missing key.
func (r *RedisCacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errEmptyCacheKey
	}
	b, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return b, nil
}

func (r *RedisCacheRepo) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errEmptyCacheKey
	}
	n, err := r.rdb.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache delete %s: %w", key, err)
	}
	return n == 1, nil
}

func (r *RedisCacheRepo) Incr(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, errEmptyCacheKey
	}
	n, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("cache incr %s: %w", key, err)
	}
	return n, nil
}

func (r *RedisCacheRepo) Health(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
