package abstraction

import (
	"context"

	"gallery/internal/domain/dto"
	"gallery/internal/domain/model"
)

// Creator admits a new object and queues it for processing.
type Creator interface {
	CreateObject(ctx context.Context, req dto.CreateObjectRequest) (*model.Object, error)
}
