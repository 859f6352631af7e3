package database

import (
	"context"

	"gallery/internal/domain/dto"
	"gallery/internal/domain/model"
)

// Lister defines the interface for listing objects from the database.
type Lister interface {
	List(ctx context.Context, query dto.ListQuery) ([]model.Object, int64, error)
}
