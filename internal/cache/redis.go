package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the Store interface with a shared Redis instance so several
// API replicas see the same cache. TTL enforcement is delegated to Redis
// key expiry; owner invalidation scans the owner's key prefix.
type Redis struct {
	client  *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

// NewRedis wraps an existing client. A non-positive TTL falls back to
// DefaultTTL.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl, timeout: 2 * time.Second}
}

var _ Store = (*Redis)(nil)

func (r *Redis) Get(key string, dest any) bool {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	payload, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(payload, dest) == nil
}

func (r *Redis) Set(key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	_ = r.client.Set(ctx, key, payload, r.ttl).Err()
}

func (r *Redis) InvalidateOwner(ownerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	iter := r.client.Scan(ctx, 0, ownerPrefix(ownerID)+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		_ = r.client.Del(ctx, keys...).Err()
	}
}
