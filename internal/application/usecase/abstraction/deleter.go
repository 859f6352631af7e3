package abstraction

import (
	"context"

	"gallery/internal/domain/model"
)

// Deleter defines the interface for deleting an object and its blob.
type Deleter interface {
	DeleteObject(ctx context.Context, id string) (*model.Object, error)
}
