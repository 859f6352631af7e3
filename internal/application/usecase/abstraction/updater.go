package abstraction

import (
	"context"

	"gallery/internal/domain/dto"
	"gallery/internal/domain/model"
)

type Updater interface {
	UpdateObject(ctx context.Context, id string, req dto.UpdateObjectRequest) (*model.Object, error)
}
