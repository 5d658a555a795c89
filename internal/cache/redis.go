// Package cache wraps the Redis client behind per-IP rate limiting on the
// car API. Redis is optional: without REDIS_URL the API runs unthrottled.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Pool defaults for a client that runs one short script per request. Values
// given as REDIS_URL query parameters (pool_size=...) take precedence.
const (
	defaultPoolSize        = 10
	defaultMinIdleConns    = 2
	defaultPoolTimeout     = 4 * time.Second
	defaultConnMaxIdleTime = 5 * time.Minute
)

// Cache is the Redis handle shared by the rate limiter and /readyz.
type Cache struct {
	client *redis.Client
}

// New connects to redisURL and pings it before returning.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	applyPoolDefaults(opt)

	c := &Cache{client: redis.NewClient(opt)}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return c, nil
}

// applyPoolDefaults fills in the pool settings the URL left at zero.
func applyPoolDefaults(opt *redis.Options) {
	if opt.PoolSize == 0 {
		opt.PoolSize = defaultPoolSize
	}
	if opt.MinIdleConns == 0 {
		opt.MinIdleConns = defaultMinIdleConns
	}
	if opt.PoolTimeout == 0 {
		opt.PoolTimeout = defaultPoolTimeout
	}
	if opt.ConnMaxIdleTime == 0 {
		opt.ConnMaxIdleTime = defaultConnMaxIdleTime
	}
}

// Ping reports whether Redis is reachable. It satisfies the readiness
// checker used by /readyz.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// Client exposes the raw client for test setup.
func (c *Cache) Client() *redis.Client {
	return c.client
}
