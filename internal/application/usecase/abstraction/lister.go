package abstraction

import (
	"context"

	"gallery/internal/domain/dto"
)

type Lister interface {
	ListObjects(ctx context.Context, query dto.ListQuery) (dto.ObjectPage, error)
}
