package database

import (
	"context"

	"gallery/internal/domain/model"
)

type Remover interface {
	Remove(ctx context.Context, id string) (*model.Object, error)
}
