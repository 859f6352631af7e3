package database

import (
	"context"

	"gallery/internal/domain/model"
)

// Updater applies a partial update and returns the record after the write.
// A guarded update whose FromStatuses do not match returns model.ErrStatusConflict.
type Updater interface {
	Update(ctx context.Context, id string, update model.ObjectUpdate) (*model.Object, error)
}
