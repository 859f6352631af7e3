package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"gallery/internal/domain/dto"
	"gallery/internal/domain/model"
	"gallery/internal/domain/repository/blobstore"
	"gallery/internal/domain/repository/broker"
	"gallery/internal/domain/repository/database"
	"gallery/internal/domain/repository/notifier"
	"gallery/pkg/logger"
	"gallery/pkg/utils"
)

const originalPrefix = "original/"

type Creator struct {
	writer    database.Writer
	dbRemover database.Remover
	uploader  blobstore.Uploader
	remover   blobstore.Remover
	queue     broker.Publisher
	notifier  notifier.Publisher
	cache     *ObjectCache
	bucket    string
}

func NewCreator(writer database.Writer, dbRemover database.Remover, uploader blobstore.Uploader,
	remover blobstore.Remover, queue broker.Publisher, notifier notifier.Publisher, cache *ObjectCache, bucket string,
) *Creator {
	return &Creator{
		writer:    writer,
		dbRemover: dbRemover,
		uploader:  uploader,
		remover:   remover,
		queue:     queue,
		notifier:  notifier,
		cache:     cache,
		bucket:    bucket,
	}
}

// CreateObject stores the payload under original/, writes a PENDING record and
// enqueues its processing job. When the job cannot be admitted the record and
// blob are rolled back and model.ErrQueueUnavailable is returned.
func (c *Creator) CreateObject(ctx context.Context, req dto.CreateObjectRequest) (*model.Object, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	obj := &model.Object{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		OriginalName: req.OriginalName,
		MimeType:     req.MimeType,
		Status:       model.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if req.Body != nil {
		detected := mimetype.Detect(req.Body).String()
		if !utils.IsImageMimeType(detected) {
			return nil, model.NewValidationError("file", fmt.Sprintf("unsupported content type %s", detected))
		}

		key := originalPrefix + obj.ID + utils.GetExtensionFromMimeType(detected)

		res, err := c.uploader.Put(ctx, c.bucket, key, req.Body, detected)
		if err != nil {
			return nil, fmt.Errorf("store original: %w", err)
		}

		obj.MimeType = detected
		obj.Size = res.Size
		obj.Bucket = res.Bucket
		obj.BlobKey = res.Key
	}

	if err := c.writer.Create(ctx, obj); err != nil {
		c.removeBlob(ctx, obj)

		return nil, fmt.Errorf("create record: %w", err)
	}

	if err := c.queue.Publish(ctx, obj.ID); err != nil {
		logger.Error("failed to enqueue processing job", "object_id", obj.ID, "err", err)

		if _, rmErr := c.dbRemover.Remove(ctx, obj.ID); rmErr != nil {
			logger.Error("failed to remove record after enqueue failed", "object_id", obj.ID, "err", rmErr)
		}

		c.removeBlob(ctx, obj)

		if !errors.Is(err, model.ErrQueueUnavailable) {
			err = fmt.Errorf("%w: %v", model.ErrQueueUnavailable, err)
		}

		return nil, err
	}

	c.cache.Invalidate(ctx, obj.ID)

	n := model.NewNotification(obj.ID, model.NotificationUploaded)
	n.Title = obj.Title
	notify(ctx, c.notifier, n)

	return obj, nil
}

func (c *Creator) removeBlob(ctx context.Context, obj *model.Object) {
	if !obj.HasBlob() {
		return
	}

	if err := c.remover.Remove(ctx, obj.Bucket, obj.BlobKey); err != nil {
		logger.Error("failed to remove blob during rollback", "object_id", obj.ID, "key", obj.BlobKey, "err", err)
	}
}
