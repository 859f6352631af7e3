package usecase

import (
	"context"

	"gallery/internal/domain/model"
	"gallery/internal/domain/repository/blobstore"
	"gallery/internal/domain/repository/database"
	"gallery/internal/domain/repository/notifier"
	"gallery/pkg/logger"
)

// Deleter implements the Deleter abstraction for removing objects.
type Deleter struct {
	dbRemover   database.Remover
	blobRemover blobstore.Remover
	notifier    notifier.Publisher
	cache       *ObjectCache
}

// NewDeleter creates a new Deleter usecase.
func NewDeleter(dbRemover database.Remover, blobRemover blobstore.Remover, notifier notifier.Publisher,
	cache *ObjectCache,
) *Deleter {
	return &Deleter{
		dbRemover:   dbRemover,
		blobRemover: blobRemover,
		notifier:    notifier,
		cache:       cache,
	}
}

// DeleteObject removes the record first; the owned blob is removed best-effort.
func (d *Deleter) DeleteObject(ctx context.Context, id string) (*model.Object, error) {
	obj, err := d.dbRemover.Remove(ctx, id)
	if err != nil {
		return nil, err
	}

	if obj.HasBlob() {
		if err := d.blobRemover.Remove(ctx, obj.Bucket, obj.BlobKey); err != nil {
			logger.Warn("failed to remove blob of deleted object", "object_id", id, "key", obj.BlobKey, "err", err)
		}
	}

	d.cache.Invalidate(ctx, id)

	n := model.NewNotification(id, model.NotificationDeleted)
	n.Title = obj.Title
	notify(ctx, d.notifier, n)

	return obj, nil
}
