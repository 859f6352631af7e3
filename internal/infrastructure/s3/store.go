package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"gallery/internal/domain/entity"
	"gallery/pkg/logger"
)

var errMissingRegion = errors.New("s3 region is required")

// Store implements the blob store port against any S3 compatible service.
type Store struct {
	client    *s3.Client
	presign   *s3.PresignClient
	cfg       Config
	publicURL string
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Region) == "" {
		return nil, errMissingRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimRight(cfg.Endpoint, "/")
	}

	logger.Info("s3 blob store configured", "endpoint", cfg.Endpoint, "region", cfg.Region)

	return &Store{
		client:    client,
		presign:   s3.NewPresignClient(client),
		cfg:       cfg,
		publicURL: publicURL,
	}, nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, time.Duration(s.cfg.Timeout)*time.Millisecond)
}

func (s *Store) objectURL(bucket, key string) string {
	if s.cfg.UsePathStyle || s.publicURL == "" {
		return fmt.Sprintf("%s/%s/%s", s.publicURL, bucket, key)
	}

	return fmt.Sprintf("%s/%s", s.publicURL, key)
}

// EnsureBucket creates the bucket when HeadBucket reports it missing.
func (s *Store) EnsureBucket(ctx context.Context, bucket string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err == nil {
		return nil
	}

	_, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})

	return err
}

func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, contentType string,
) (entity.BlobUploadResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		logger.Error("failed to upload object", "bucket", bucket, "key", key, "err", err)

		return entity.BlobUploadResult{}, fmt.Errorf("upload %s: %w", key, err)
	}

	return entity.BlobUploadResult{
		Key:    key,
		URL:    s.objectURL(bucket, key),
		Bucket: bucket,
		Size:   int64(len(data)),
	}, nil
}

func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	return data, nil
}

func (s *Store) SignURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	return req.URL, nil
}

func (s *Store) Remove(ctx context.Context, bucket, key string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.Error("failed to remove object", "bucket", bucket, "key", key, "err", err)

		return err
	}

	return nil
}
