package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gallery/internal/domain/model"
	cacheRepository "gallery/internal/domain/repository/cache"
	"gallery/pkg/logger"
)

const scanCount = 1000

type RedisCache struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisCache(cfg Config) (*RedisCache, error) {
	if cfg.URI == "" {
		return nil, errors.New("redis URI must be provided")
	}

	opt, err := redis.ParseURL(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URI: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Starting without a reachable cache is allowed; reads fall back to the store.
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis cache is not reachable yet", "err", err)
	} else {
		logger.Info("connected to redis cache")
	}

	return &RedisCache{
		client:  client,
		timeout: time.Duration(cfg.Timeout) * time.Millisecond,
	}, nil
}

func (r *RedisCache) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, r.timeout)
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cacheRepository.ErrMiss
		}

		return nil, fmt.Errorf("%w: %v", model.ErrCacheUnavailable, err)
	}

	return val, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrCacheUnavailable, err)
	}

	return nil
}

// Invalidate walks the keyspace with SCAN and unlinks every match in batches.
func (r *RedisCache) Invalidate(ctx context.Context, pattern string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return fmt.Errorf("%w: scan %s: %v", model.ErrCacheUnavailable, pattern, err)
		}

		if len(keys) > 0 {
			if err := r.client.Unlink(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: unlink: %v", model.ErrCacheUnavailable, err)
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (r *RedisCache) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
