package usecase

import (
	"context"

	"gallery/internal/domain/dto"
	"gallery/internal/domain/model"
	"gallery/internal/domain/repository/database"
)

// Updater edits user text on an object. Status is left alone.
type Updater struct {
	updater database.Updater
	cache   *ObjectCache
}

func NewUpdater(updater database.Updater, cache *ObjectCache) *Updater {
	return &Updater{
		updater: updater,
		cache:   cache,
	}
}

func (u *Updater) UpdateObject(ctx context.Context, id string, req dto.UpdateObjectRequest) (*model.Object, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	obj, err := u.updater.Update(ctx, id, model.ObjectUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}

	u.cache.Invalidate(ctx, id)

	return obj, nil
}
