package abstraction

import (
	"context"

	"gallery/internal/domain/model"
)

// Getter defines the interface for retrieving a single object.
type Getter interface {
	GetObject(ctx context.Context, id string) (*model.Object, error)
}
