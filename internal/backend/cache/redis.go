package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rendered:"

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(address string) (RenderedCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: address,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Set(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, keyPrefix+sessionID, data, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, sessionID string) ([]byte, error) {
	data, err := c.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *RedisCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, keyPrefix+sessionID).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
