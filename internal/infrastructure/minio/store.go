package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"gallery/internal/domain/entity"
	"gallery/pkg/logger"
)

// Store implements the blob store port on top of MinIO.
type Store struct {
	minioClient *minio.Client
	cfg         StoreConfig
	publicURL   string
}

func NewStore(client *Client, cfg StoreConfig) *Store {
	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = client.baseURL()
	}

	return &Store{
		minioClient: client.MinioClient,
		cfg:         cfg,
		publicURL:   publicURL,
	}
}

func (s *Store) timeout() time.Duration {
	return time.Duration(s.cfg.Timeout) * time.Millisecond
}

func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, contentType string,
) (entity.BlobUploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	info, err := s.minioClient.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
		})
	if err != nil {
		logger.Error("failed to upload object", "bucket", bucket, "key", key, "err", err)

		return entity.BlobUploadResult{}, fmt.Errorf("upload %s: %w", key, err)
	}

	return entity.BlobUploadResult{
		Key:    key,
		URL:    fmt.Sprintf("%s/%s/%s", s.publicURL, bucket, key),
		Bucket: bucket,
		Size:   info.Size,
	}, nil
}

func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	obj, err := s.minioClient.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		logger.Error("failed to read object", "bucket", bucket, "key", key, "err", err)

		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	return data, nil
}

func (s *Store) SignURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	u, err := s.minioClient.PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	return u.String(), nil
}

func (s *Store) Remove(ctx context.Context, bucket, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	err := s.minioClient.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		logger.Error("failed to remove object", "bucket", bucket, "key", key, "err", err)

		return err
	}

	return nil
}
