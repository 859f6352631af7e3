package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"gallery/internal/domain/dto"
	"gallery/internal/domain/repository/cache"
	"gallery/internal/infrastructure/metrics"
	"gallery/pkg/logger"
)

const (
	listNamespace = "objects:list:"
	itemNamespace = "objects:item:"

	DefaultListTTL = 60 * time.Second
	DefaultItemTTL = 300 * time.Second
)

func ListKey(q dto.ListQuery) string {
	return fmt.Sprintf("%s%d:%d:%s:%s", listNamespace, q.Page, q.Limit, q.Status, url.QueryEscape(q.Search))
}

func ItemKey(id string) string {
	return itemNamespace + id
}

// ObjectCache is the read-through layer in front of the record store. A nil
// *ObjectCache is valid and always reads from the store.
type ObjectCache struct {
	backend cache.Cache
	listTTL time.Duration
	itemTTL time.Duration
}

func NewObjectCache(backend cache.Cache, listTTL, itemTTL time.Duration) *ObjectCache {
	if listTTL <= 0 {
		listTTL = DefaultListTTL
	}

	if itemTTL <= 0 {
		itemTTL = DefaultItemTTL
	}

	return &ObjectCache{backend: backend, listTTL: listTTL, itemTTL: itemTTL}
}

// Invalidate drops every cached list page and the cached record of id.
// Failures are logged only; entries expire with their TTL anyway.
func (c *ObjectCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.backend == nil {
		return
	}

	if err := c.backend.Invalidate(ctx, listNamespace+"*"); err != nil {
		logger.Warn("failed to invalidate list cache", "err", err)
	}

	if id == "" {
		return
	}

	if err := c.backend.Invalidate(ctx, ItemKey(id)); err != nil {
		logger.Warn("failed to invalidate object cache", "id", id, "err", err)
	}
}

// readThrough serves key from the cache or computes it with load and stores
// the result. The bool reports a cache hit.
func readThrough[T any](ctx context.Context, c *ObjectCache, key string, ttl time.Duration,
	load func(context.Context) (T, error),
) (T, bool, error) {
	if c == nil || c.backend == nil {
		v, err := load(ctx)

		return v, false, err
	}

	raw, err := c.backend.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		if jsonErr := json.Unmarshal(raw, &v); jsonErr == nil {
			metrics.RecordCache("hit")

			return v, true, nil
		}

		logger.Warn("discarding undecodable cache entry", "key", key)
		metrics.RecordCache("miss")
	case errors.Is(err, cache.ErrMiss):
		metrics.RecordCache("miss")
	default:
		logger.Warn("cache unavailable, reading from store", "key", key, "err", err)
		metrics.RecordCache("error")
	}

	v, err := load(ctx)
	if err != nil {
		return v, false, err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to encode cache entry", "key", key, "err", err)

		return v, false, nil
	}

	if err := c.backend.Set(ctx, key, payload, ttl); err != nil {
		logger.Warn("failed to populate cache", "key", key, "err", err)
	}

	return v, false, nil
}

func (c *ObjectCache) ListTTL() time.Duration {
	if c == nil {
		return DefaultListTTL
	}

	return c.listTTL
}

func (c *ObjectCache) ItemTTL() time.Duration {
	if c == nil {
		return DefaultItemTTL
	}

	return c.itemTTL
}
