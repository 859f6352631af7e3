package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gallery/internal/domain/entity"
	"gallery/internal/domain/model"
	"gallery/internal/domain/repository/blobstore"
	"gallery/internal/domain/repository/database"
	"gallery/internal/domain/repository/notifier"
	"gallery/internal/domain/repository/transform"
	"gallery/internal/infrastructure/metrics"
	"gallery/pkg/logger"
)

const processedPrefix = "processed/"

var errNoBlob = errors.New("object has no blob reference")

// Processor drives one object through PROCESSING to READY or FAILED.
type Processor struct {
	retriever    database.Retriever
	updater      database.Updater
	blobs        blobstore.Store
	transformer  transform.Transformer
	notifier     notifier.Publisher
	cache        *ObjectCache
	bucket       string
	fetchTimeout time.Duration
}

func NewProcessor(retriever database.Retriever, updater database.Updater, blobs blobstore.Store,
	transformer transform.Transformer, notifier notifier.Publisher, cache *ObjectCache, bucket string,
	fetchTimeout time.Duration,
) *Processor {
	return &Processor{
		retriever:    retriever,
		updater:      updater,
		blobs:        blobs,
		transformer:  transformer,
		notifier:     notifier,
		cache:        cache,
		bucket:       bucket,
		fetchTimeout: fetchTimeout,
	}
}

// Process returns nil once the job needs no further attempt. A returned error
// is retryable: the record was marked FAILED (or could not be written at all)
// and the queue should run the job again.
func (p *Processor) Process(ctx context.Context, objectID string) error {
	start := time.Now()
	outcome, err := p.process(ctx, objectID)
	metrics.RecordJob(outcome, time.Since(start))

	return err
}

func (p *Processor) process(ctx context.Context, id string) (string, error) {
	obj, err := p.retriever.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("skipping job for deleted object", "object_id", id)

			return "skipped", nil
		}

		return "retry", model.Retryable(fmt.Errorf("load object: %w", err))
	}

	if obj.Status == model.StatusReady {
		logger.Debug("object already processed", "object_id", id)

		return "skipped", nil
	}

	obj, err = p.updater.Update(ctx, id, model.StatusUpdate(model.StatusProcessing))
	if err != nil {
		if errors.Is(err, model.ErrStatusConflict) || errors.Is(err, model.ErrNotFound) {
			logger.Info("object left processable state", "object_id", id, "err", err)

			return "skipped", nil
		}

		return "retry", model.Retryable(fmt.Errorf("mark processing: %w", err))
	}

	p.cache.Invalidate(ctx, id)

	if !obj.HasBlob() {
		return p.fail(ctx, obj, model.Permanent(errNoBlob))
	}

	bucket := obj.Bucket
	if bucket == "" {
		bucket = p.bucket
	}

	result, err := p.derive(ctx, bucket, obj.BlobKey)
	if err != nil {
		return p.fail(ctx, obj, err)
	}

	processedKey := processedPrefix + id + ".jpg"

	uploaded, err := p.blobs.Put(ctx, bucket, processedKey, result.Data, result.ContentType)
	if err != nil {
		return p.fail(ctx, obj, model.Retryable(fmt.Errorf("store processed blob: %w", err)))
	}

	next := model.StatusReady
	width, height := result.Width, result.Height
	ready, err := p.updater.Update(ctx, id, model.ObjectUpdate{
		Status:       &next,
		BlobKey:      &uploaded.Key,
		BlobURL:      &uploaded.URL,
		Width:        &width,
		Height:       &height,
		FromStatuses: model.AllowedFrom(next),
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			logger.Info("object deleted while processing", "object_id", id)
			p.removeBlob(ctx, bucket, uploaded.Key)

			return "skipped", nil
		case errors.Is(err, model.ErrStatusConflict):
			logger.Info("another worker settled the object first", "object_id", id)

			return "skipped", nil
		default:
			logger.Error("failed to mark object ready", "object_id", id, "err", err)

			return "retry", model.Retryable(fmt.Errorf("mark ready: %w", err))
		}
	}

	p.cache.Invalidate(ctx, id)

	if obj.BlobKey != uploaded.Key {
		p.removeBlob(ctx, bucket, obj.BlobKey)
	}

	n := model.NewNotification(id, model.NotificationReady)
	n.Title = ready.Title
	n.BlobURL = ready.BlobURL
	notify(ctx, p.notifier, n)

	logger.Info("object processed", "object_id", id, "width", width, "height", height)

	return "ready", nil
}

// derive fetches the source blob under the fetch deadline and transforms it.
func (p *Processor) derive(ctx context.Context, bucket, key string) (entity.TransformResult, error) {
	fetchCtx := ctx
	if p.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, p.fetchTimeout)
		defer cancel()
	}

	data, err := p.blobs.Get(fetchCtx, bucket, key)
	if err != nil {
		return entity.TransformResult{}, model.Retryable(fmt.Errorf("fetch %s: %w", key, err))
	}

	res, err := p.transformer.Transform(ctx, data)
	if err != nil {
		var perr *model.ProcessingError
		if !errors.As(err, &perr) {
			err = model.Permanent(err)
		}

		return entity.TransformResult{}, err
	}

	return res, nil
}

// fail records FAILED and publishes the failure. Retryable causes are returned
// so the queue runs the job again; permanent ones settle it.
func (p *Processor) fail(ctx context.Context, obj *model.Object, cause error) (string, error) {
	logger.Warn("processing failed", "object_id", obj.ID, "retryable", model.IsRetryable(cause), "err", cause)

	_, err := p.updater.Update(ctx, obj.ID, model.StatusUpdate(model.StatusFailed))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrStatusConflict) {
			return "skipped", nil
		}

		logger.Error("failed to mark object FAILED", "object_id", obj.ID, "cause", cause, "err", err)

		return "retry", model.Retryable(fmt.Errorf("mark failed: %w", err))
	}

	p.cache.Invalidate(ctx, obj.ID)

	n := model.NewNotification(obj.ID, model.NotificationFailed)
	n.Title = obj.Title
	n.Error = failureMessage(cause)
	notify(ctx, p.notifier, n)

	if model.IsRetryable(cause) {
		return "retry", cause
	}

	return "failed", nil
}

func (p *Processor) removeBlob(ctx context.Context, bucket, key string) {
	if err := p.blobs.Remove(ctx, bucket, key); err != nil {
		logger.Warn("failed to remove blob", "bucket", bucket, "key", key, "err", err)
	}
}

func failureMessage(err error) string {
	var perr *model.ProcessingError
	if errors.As(err, &perr) && perr.Err != nil {
		return perr.Err.Error()
	}

	return err.Error()
}
