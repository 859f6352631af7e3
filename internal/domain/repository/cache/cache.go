package cache

import (
	"context"
	"errors"
	"time"
)

var ErrMiss = errors.New("cache miss")

// Cache is a TTL key value store. Get returns ErrMiss when the key is absent;
// any other error means the backend is unavailable.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate removes every key matching a glob pattern.
	Invalidate(ctx context.Context, pattern string) error
}
