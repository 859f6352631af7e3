package usecase

import (
	"context"
	"fmt"

	"gallery/internal/domain/dto"
	"gallery/internal/domain/repository/database"
)

// Lister implements the Lister abstraction for paging through objects.
type Lister struct {
	lister database.Lister
	cache  *ObjectCache
}

// NewLister creates a new Lister usecase.
func NewLister(lister database.Lister, cache *ObjectCache) *Lister {
	return &Lister{
		lister: lister,
		cache:  cache,
	}
}

func (l *Lister) ListObjects(ctx context.Context, query dto.ListQuery) (dto.ObjectPage, error) {
	q, err := query.Normalize()
	if err != nil {
		return dto.ObjectPage{}, err
	}

	page, hit, err := readThrough(ctx, l.cache, ListKey(q), l.cache.ListTTL(), func(ctx context.Context) (dto.ObjectPage, error) {
		items, total, err := l.lister.List(ctx, q)
		if err != nil {
			return dto.ObjectPage{}, fmt.Errorf("list objects: %w", err)
		}

		return dto.NewObjectPage(items, total, q), nil
	})
	if err != nil {
		return dto.ObjectPage{}, err
	}

	page.Cached = hit

	return page, nil
}
