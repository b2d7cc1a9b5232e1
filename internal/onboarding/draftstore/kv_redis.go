package draftstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"village/pkg/platform/sentinel"
)

// RedisKV is the production slot. Every write refreshes the retention TTL, so
// a draft expires only after a full TTL without activity.
type RedisKV struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisKV constructs a Redis-backed slot. A zero ttl keeps keys forever.
func NewRedisKV(client *redis.Client, ttl time.Duration) *RedisKV {
	return &RedisKV{client: client, ttl: ttl}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	return v, err
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

func (r *RedisKV) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
