package usecase

import (
	"context"

	"gallery/internal/domain/model"
	"gallery/internal/domain/repository/database"
)

// Getter implements the Getter abstraction for retrieving one object.
type Getter struct {
	retriever database.Retriever
	cache     *ObjectCache
}

// NewGetter creates a new Getter usecase.
func NewGetter(retriever database.Retriever, cache *ObjectCache) *Getter {
	return &Getter{
		retriever: retriever,
		cache:     cache,
	}
}

// GetObject returns model.ErrNotFound for unknown ids. Misses are not cached.
func (g *Getter) GetObject(ctx context.Context, id string) (*model.Object, error) {
	obj, _, err := readThrough(ctx, g.cache, ItemKey(id), g.cache.ItemTTL(), func(ctx context.Context) (*model.Object, error) {
		return g.retriever.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	return obj, nil
}
