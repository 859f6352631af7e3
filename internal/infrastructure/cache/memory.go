package cache

import (
	"context"
	"path"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	cacheRepository "gallery/internal/domain/repository/cache"
)

const defaultMemorySize = 1024

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a process local cache for single instance deployments and
// tests. Entries are evicted by LRU order or once their TTL passes.
type MemoryCache struct {
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = defaultMemorySize
	}

	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, err
	}

	return &MemoryCache{entries: entries, now: time.Now}, nil
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := m.entries.Get(key)
	if !ok {
		return nil, cacheRepository.ErrMiss
	}

	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.entries.Remove(key)

		return nil, cacheRepository.ErrMiss
	}

	return entry.value, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.entries.Add(key, entry)

	return nil
}

func (m *MemoryCache) Invalidate(_ context.Context, pattern string) error {
	for _, key := range m.entries.Keys() {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return err
		}

		if matched {
			m.entries.Remove(key)
		}
	}

	return nil
}
