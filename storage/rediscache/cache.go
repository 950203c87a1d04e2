// Package rediscache implements storage.ByteCache on Redis. Entries carry
// no TTL: they live until explicitly deleted, which is the contract the
// media cache relies on.
package rediscache

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"ember_server/apperr"
	"ember_server/storage"
)

type Cache struct {
	client *redis.Client
}

var _ storage.ByteCache = (*Cache)(nil)

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Cache{client: client}, nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("cache key %q: %w", key, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return value, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *Cache) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache del: %w", err)
	}
	return nil
}
