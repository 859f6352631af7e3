package blobstore

import (
	"context"
	"time"

	"gallery/internal/domain/entity"
)

type Uploader interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) (entity.BlobUploadResult, error)
}

type Getter interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
}

type Signer interface {
	SignURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

type Remover interface {
	Remove(ctx context.Context, bucket, key string) error
}

// Store is the full blob store surface.
type Store interface {
	Uploader
	Getter
	Signer
	Remover
}
