package usecase

import (
	"context"
	"fmt"
	"time"

	"gallery/internal/domain/dto"
	"gallery/internal/domain/model"
	"gallery/internal/domain/repository/blobstore"
	"gallery/internal/domain/repository/database"
)

const DefaultPresignTTL = 15 * time.Minute

// Downloader signs time limited links to processed blobs. It reads the record
// store directly so a fresh READY status is never hidden by a cached entry.
type Downloader struct {
	retriever database.Retriever
	signer    blobstore.Signer
	bucket    string
	ttl       time.Duration
	timeout   time.Duration
}

func NewDownloader(retriever database.Retriever, signer blobstore.Signer, bucket string,
	ttl, timeout time.Duration,
) *Downloader {
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}

	return &Downloader{
		retriever: retriever,
		signer:    signer,
		bucket:    bucket,
		ttl:       ttl,
		timeout:   timeout,
	}
}

// GetDownloadURL fails with model.ErrNotReady until processing has produced a blob.
func (d *Downloader) GetDownloadURL(ctx context.Context, id string) (dto.DownloadURL, error) {
	obj, err := d.retriever.GetByID(ctx, id)
	if err != nil {
		return dto.DownloadURL{}, err
	}

	if obj.Status != model.StatusReady || !obj.HasBlob() {
		return dto.DownloadURL{}, model.ErrNotReady
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	bucket := obj.Bucket
	if bucket == "" {
		bucket = d.bucket
	}

	url, err := d.signer.SignURL(ctx, bucket, obj.BlobKey, d.ttl)
	if err != nil {
		return dto.DownloadURL{}, fmt.Errorf("sign url: %w", err)
	}

	return dto.DownloadURL{URL: url, ExpiresIn: int(d.ttl.Seconds())}, nil
}
