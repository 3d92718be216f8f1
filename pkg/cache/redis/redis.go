// Package redis implements cache.Cache on top of Redis, for multi-instance
// orchestrator deployments where a single host's file cache can't be
// shared. Writes use SETNX semantics so two instances racing to cache the
// same solve result never clobber each other with a slower write.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hierarchytrix/solver/pkg/cache"
)

// Cache is a Redis-backed cache.Cache.
type Cache struct {
	client *goredis.Client
}

// Config configures a Redis-backed cache.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// New connects to Redis and returns a Cache.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Cache{client: client}, nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return data, true, nil
}

// Set stores data under key with a write-once guarantee: if key already
// holds a value, Set leaves it untouched rather than overwriting it, so
// two racing writers agree on whichever value landed first.
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	ok, err := c.client.SetNX(ctx, key, data, ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return nil
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

var _ cache.Cache = (*Cache)(nil)
