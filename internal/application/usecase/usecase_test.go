package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gallery/internal/domain/dto"
	"gallery/internal/domain/entity"
	"gallery/internal/domain/model"
	"gallery/internal/infrastructure/cache"
	"gallery/internal/infrastructure/transform"
)

const testBucket = "gallery"

type harness struct {
	store      *memoryStore
	blobs      *memoryBlobs
	queue      *recordingQueue
	notifier   *recordingNotifier
	cache      *ObjectCache
	creator    *Creator
	lister     *Lister
	getter     *Getter
	updater    *Updater
	deleter    *Deleter
	downloader *Downloader
	processor  *Processor
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend, err := cache.NewMemoryCache(64)
	require.NoError(t, err)

	h := &harness{
		store:    newMemoryStore(),
		blobs:    newMemoryBlobs(),
		queue:    &recordingQueue{},
		notifier: &recordingNotifier{},
		cache:    NewObjectCache(backend, time.Minute, 5*time.Minute),
	}

	h.creator = NewCreator(h.store, h.store, h.blobs, h.blobs, h.queue, h.notifier, h.cache, testBucket)
	h.lister = NewLister(h.store, h.cache)
	h.getter = NewGetter(h.store, h.cache)
	h.updater = NewUpdater(h.store, h.cache)
	h.deleter = NewDeleter(h.store, h.blobs, h.notifier, h.cache)
	h.downloader = NewDownloader(h.store, h.blobs, testBucket, time.Minute, time.Second)
	h.processor = NewProcessor(h.store, h.store, h.blobs, transform.NewImageTransformer(transform.Config{MaxDimension: 64}),
		h.notifier, h.cache, testBucket, time.Second)

	return h
}

func (h *harness) create(t *testing.T, title string) *model.Object {
	t.Helper()

	obj, err := h.creator.CreateObject(context.Background(), dto.CreateObjectRequest{
		Title:        title,
		OriginalName: title + ".png",
		MimeType:     "image/png",
		Body:         pngPayload(t, 128, 96),
	})
	require.NoError(t, err)

	return obj
}

func assertLegalTransitions(t *testing.T, transitions [][2]model.Status) {
	t.Helper()

	for _, tr := range transitions {
		assert.True(t, tr[0].CanTransitionTo(tr[1]), "illegal transition %s -> %s", tr[0], tr[1])
		assert.NotEqual(t, model.StatusReady, tr[0], "READY must never be left")
	}
}

func TestCreateObject(t *testing.T) {
	h := newHarness(t)

	obj := h.create(t, "cat")

	assert.Equal(t, model.StatusPending, obj.Status)
	assert.Equal(t, "image/png", obj.MimeType)
	assert.Equal(t, "original/"+obj.ID+".png", obj.BlobKey)
	assert.Empty(t, obj.BlobURL)
	assert.True(t, h.blobs.Has(testBucket, obj.BlobKey))
	assert.Equal(t, []string{obj.ID}, h.queue.ids)

	last := h.notifier.Last()
	assert.Equal(t, model.NotificationUploaded, last.Status)
	assert.Equal(t, obj.ID, last.ObjectID)
	assert.Equal(t, "cat", last.Title)
}

func TestCreateObjectValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.CreateObjectRequest
	}{
		{"title too long", dto.CreateObjectRequest{Title: strings.Repeat("t", 121)}},
		{"not an image", dto.CreateObjectRequest{Title: "notes", Body: []byte("plain text payload")}},
		{"empty payload", dto.CreateObjectRequest{Title: "empty", Body: []byte{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.creator.CreateObject(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, model.IsValidation(err))
		})
	}

	assert.Empty(t, h.queue.ids)
	assert.Empty(t, h.store.objects)
}

func TestCreateObjectRollsBackWhenQueueUnavailable(t *testing.T) {
	h := newHarness(t)
	h.queue.err = errors.New("connection refused")

	_, err := h.creator.CreateObject(context.Background(), dto.CreateObjectRequest{
		Title: "dog",
		Body:  pngPayload(t, 8, 8),
	})

	require.ErrorIs(t, err, model.ErrQueueUnavailable)
	assert.Empty(t, h.store.objects)
	assert.Empty(t, h.blobs.blobs)
	assert.Empty(t, h.notifier.Statuses())
}

// Scenario A
func TestProcessSuccess(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	obj := h.create(t, "cat")
	originalKey := obj.BlobKey

	require.NoError(t, h.processor.Process(ctx, obj.ID))

	got, err := h.getter.GetObject(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReady, got.Status)
	assert.Equal(t, "processed/"+obj.ID+".jpg", got.BlobKey)
	assert.NotEmpty(t, got.BlobURL)
	require.NotNil(t, got.Width)
	require.NotNil(t, got.Height)
	assert.Equal(t, 64, *got.Width)
	assert.Equal(t, 48, *got.Height)

	assert.False(t, h.blobs.Has(testBucket, originalKey), "original should be removed once processed")

	last := h.notifier.Last()
	assert.Equal(t, model.NotificationReady, last.Status)
	assert.Equal(t, got.BlobURL, last.BlobURL)
	assert.Equal(t, "cat", last.Title)

	assert.Equal(t, [][2]model.Status{
		{model.StatusPending, model.StatusProcessing},
		{model.StatusProcessing, model.StatusReady},
	}, h.store.Transitions())
}

// Scenario B
func TestProcessFetchFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	obj := h.create(t, "broken")
	h.blobs.getErrs = []error{errors.New("blob store unreachable")}

	err := h.processor.Process(ctx, obj.ID)
	require.Error(t, err)
	assert.True(t, model.IsRetryable(err), "fetch failures are handed back to the queue")

	stored, err := h.store.GetByID(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, stored.Status)

	last := h.notifier.Last()
	assert.Equal(t, model.NotificationFailed, last.Status)
	assert.Contains(t, last.Error, "blob store unreachable")
}

func TestProcessFetchDeadline(t *testing.T) {
	h := newHarness(t)
	h.processor.fetchTimeout = time.Nanosecond

	obj := h.create(t, "slow")

	err := h.processor.Process(context.Background(), obj.ID)
	require.Error(t, err)
	assert.True(t, model.IsRetryable(err))

	stored, _ := h.store.GetByID(context.Background(), obj.ID)
	assert.Equal(t, model.StatusFailed, stored.Status)
}

func TestProcessRetryReentersFromFailed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	obj := h.create(t, "flaky")
	h.blobs.getErrs = []error{errors.New("timeout")}

	require.Error(t, h.processor.Process(ctx, obj.ID))
	require.NoError(t, h.processor.Process(ctx, obj.ID))

	stored, err := h.store.GetByID(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReady, stored.Status)

	assert.Equal(t, [][2]model.Status{
		{model.StatusPending, model.StatusProcessing},
		{model.StatusProcessing, model.StatusFailed},
		{model.StatusFailed, model.StatusProcessing},
		{model.StatusProcessing, model.StatusReady},
	}, h.store.Transitions())
	assertLegalTransitions(t, h.store.Transitions())
}

func TestProcessPermanentFailureSettlesJob(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tr := &mockTransformer{}
	tr.On("Transform", mock.Anything, mock.Anything).
		Return(entity.TransformResult{}, model.Permanent(errors.New("cannot decode image"))).Once()
	h.processor.transformer = tr

	obj := h.create(t, "corrupt")

	require.NoError(t, h.processor.Process(ctx, obj.ID))

	stored, err := h.store.GetByID(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, stored.Status)
	assert.Equal(t, "cannot decode image", h.notifier.Last().Error)
	tr.AssertExpectations(t)
}

func TestProcessWithoutBlobFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	obj, err := h.creator.CreateObject(ctx, dto.CreateObjectRequest{Title: "metadata only"})
	require.NoError(t, err)
	assert.False(t, obj.HasBlob())

	require.NoError(t, h.processor.Process(ctx, obj.ID))

	stored, err := h.store.GetByID(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, stored.Status)
	assert.Equal(t, model.NotificationFailed, h.notifier.Last().Status)
	assertLegalTransitions(t, h.store.Transitions())
}

func TestProcessIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	obj := h.create(t, "twice")

	require.NoError(t, h.processor.Process(ctx, obj.ID))
	first, err := h.store.GetByID(ctx, obj.ID)
	require.NoError(t, err)

	require.NoError(t, h.processor.Process(ctx, obj.ID))
	second, err := h.store.GetByID(ctx, obj.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusReady, second.Status)
	assert.Equal(t, first.BlobKey, second.BlobKey)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
	assertLegalTransitions(t, h.store.Transitions())
}

func TestProcessConcurrentDuplicates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	obj := h.create(t, "racy")

	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() { errs <- h.processor.Process(ctx, obj.ID) }()
	}

	for i := 0; i < 4; i++ {
		assert.NoError(t, <-errs)
	}

	stored, err := h.store.GetByID(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReady, stored.Status)
	assertLegalTransitions(t, h.store.Transitions())
}

func TestProcessDeletedObjectIsNoop(t *testing.T) {
	h := newHarness(t)

	assert.NoError(t, h.processor.Process(context.Background(), "gone"))
	assert.Empty(t, h.store.Transitions())
}

// Scenario C
func TestListUsesCacheUntilWrite(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	obj := h.create(t, "cat")
	h.create(t, "dog")

	first, err := h.lister.ListObjects(ctx, dto.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, int64(2), first.Total)
	assert.Equal(t, 1, first.TotalPages)

	second, err := h.lister.ListObjects(ctx, dto.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	require.Len(t, second.Items, len(first.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].ID, second.Items[i].ID)
	}

	title := "lion"
	_, err = h.updater.UpdateObject(ctx, obj.ID, dto.UpdateObjectRequest{Title: &title})
	require.NoError(t, err)

	third, err := h.lister.ListObjects(ctx, dto.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.False(t, third.Cached)

	titles := []string{}
	for _, item := range third.Items {
		titles = append(titles, item.Title)
	}
	assert.Contains(t, titles, "lion")
	assert.NotContains(t, titles, "cat")

	got, err := h.getter.GetObject(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, "lion", got.Title)
}

func TestListRejectsInvalidQuery(t *testing.T) {
	h := newHarness(t)

	_, err := h.lister.ListObjects(context.Background(), dto.ListQuery{Limit: 500})
	assert.True(t, model.IsValidation(err))
}

func TestReadsFallBackWhenCacheUnavailable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	obj := h.create(t, "cat")

	broken := &mockCache{}
	broken.On("Get", mock.Anything, mock.Anything).Return(nil, model.ErrCacheUnavailable)
	broken.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(model.ErrCacheUnavailable)
	broken.On("Invalidate", mock.Anything, mock.Anything).Return(model.ErrCacheUnavailable)

	objects := NewObjectCache(broken, 0, 0)
	lister := NewLister(h.store, objects)
	getter := NewGetter(h.store, objects)
	updater := NewUpdater(h.store, objects)

	page, err := lister.ListObjects(ctx, dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.False(t, page.Cached)

	got, err := getter.GetObject(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, obj.ID, got.ID)

	title := "still writable"
	_, err = updater.UpdateObject(ctx, obj.ID, dto.UpdateObjectRequest{Title: &title})
	require.NoError(t, err)

	broken.AssertCalled(t, "Invalidate", mock.Anything, "objects:list:*")
	broken.AssertCalled(t, "Invalidate", mock.Anything, ItemKey(obj.ID))
}

func TestGetObjectNotFoundIsNotCached(t *testing.T) {
	h := newHarness(t)

	_, err := h.getter.GetObject(context.Background(), "missing")
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = h.cache.backend.Get(context.Background(), ItemKey("missing"))
	assert.Error(t, err)
}

func TestUpdateObject(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	obj := h.create(t, "cat")

	description := "a grey cat"
	got, err := h.updater.UpdateObject(ctx, obj.ID, dto.UpdateObjectRequest{Description: &description})
	require.NoError(t, err)
	assert.Equal(t, "a grey cat", got.Description)
	assert.Equal(t, model.StatusPending, got.Status)

	_, err = h.updater.UpdateObject(ctx, "missing", dto.UpdateObjectRequest{Description: &description})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = h.updater.UpdateObject(ctx, obj.ID, dto.UpdateObjectRequest{})
	assert.True(t, model.IsValidation(err))
}

func TestDeleteObject(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	obj := h.create(t, "cat")

	deleted, err := h.deleter.DeleteObject(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, obj.ID, deleted.ID)
	assert.False(t, h.blobs.Has(testBucket, obj.BlobKey))
	assert.Equal(t, model.NotificationDeleted, h.notifier.Last().Status)

	_, err = h.getter.GetObject(ctx, obj.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// Scenario D
func TestDeleteMissingObject(t *testing.T) {
	h := newHarness(t)

	_, err := h.deleter.DeleteObject(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// Scenario E
func TestDownloadURL(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	obj := h.create(t, "cat")

	_, err := h.downloader.GetDownloadURL(ctx, obj.ID)
	require.ErrorIs(t, err, model.ErrNotReady)

	require.NoError(t, h.processor.Process(ctx, obj.ID))

	link, err := h.downloader.GetDownloadURL(ctx, obj.ID)
	require.NoError(t, err)
	assert.Contains(t, link.URL, "processed/"+obj.ID+".jpg")
	assert.Equal(t, 60, link.ExpiresIn)

	_, err = h.downloader.GetDownloadURL(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListKeyIsDeterministic(t *testing.T) {
	a := ListKey(dto.ListQuery{Page: 1, Limit: 12, Status: model.StatusReady, Search: "big cat"})
	b := ListKey(dto.ListQuery{Page: 1, Limit: 12, Status: model.StatusReady, Search: "big cat"})

	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "objects:list:"))
	assert.NotEqual(t, a, ListKey(dto.ListQuery{Page: 2, Limit: 12, Status: model.StatusReady, Search: "big cat"}))
}
