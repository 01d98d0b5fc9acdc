// Package cache provides the nomenclature list caches: Redis when configured,
// in-process otherwise.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"onghub/internal/domain/nomenclature"
)

// KeyPrefix namespaces every key written by this package.
const KeyPrefix = "onghub:nomenclature:"

// Redis stores serialized lists in Redis with a fixed TTL.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ nomenclature.Cache = (*Redis)(nil)

// NewRedis connects to url and verifies the connection.
func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{rdb: rdb, ttl: ttl}, nil
}

// Get returns (nil, false, nil) on a miss.
func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, true, nil
}

func (c *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := c.rdb.Set(ctx, KeyPrefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity. Used by the readiness probe.
func (c *Redis) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Redis) Close() error {
	return c.rdb.Close()
}
