package database

import (
	"context"

	"gallery/internal/domain/model"
)

type Retriever interface {
	GetByID(ctx context.Context, id string) (*model.Object, error)
}
