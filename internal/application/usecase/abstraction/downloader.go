package abstraction

import (
	"context"

	"gallery/internal/domain/dto"
)

type Downloader interface {
	GetDownloadURL(ctx context.Context, id string) (dto.DownloadURL, error)
}
