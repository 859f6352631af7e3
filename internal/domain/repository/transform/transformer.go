package transform

import (
	"context"

	"gallery/internal/domain/entity"
)

type Transformer interface {
	Transform(ctx context.Context, data []byte) (entity.TransformResult, error)
}
