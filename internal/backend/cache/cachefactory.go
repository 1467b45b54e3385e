package cache

import (
	"context"
	"fmt"
	"time"
)

func NewCache(cacheType, address string) (RenderedCache, error) {
	switch cacheType {
	case "redis":
		rendered, err := NewRedisCache(address)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", address, err)
		}
		return rendered, nil
	case "", "none":
		// Without a cache the download endpoint always renders on the fly.
		return &NoopCache{}, nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheType)
	}
}

// NoopCache discards writes and never reports a hit.
type NoopCache struct{}

func (*NoopCache) Set(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error {
	return nil
}

func (*NoopCache) Get(ctx context.Context, sessionID string) ([]byte, error) {
	return nil, nil
}

func (*NoopCache) Delete(ctx context.Context, sessionID string) error {
	return nil
}

func (*NoopCache) Close() error {
	return nil
}
