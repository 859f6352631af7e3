package usecase

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gallery/internal/domain/dto"
	"gallery/internal/domain/entity"
	"gallery/internal/domain/model"
	"gallery/internal/domain/repository/broker"
)

// memoryStore is an in-memory record store that enforces status guards the
// same way the mongo adapter does and records every status transition.
type memoryStore struct {
	mu          sync.Mutex
	objects     map[string]model.Object
	transitions [][2]model.Status
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string]model.Object{}}
}

func (s *memoryStore) Create(_ context.Context, obj *model.Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[obj.ID] = *obj

	return nil
}

func (s *memoryStore) GetByID(_ context.Context, id string) (*model.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[id]
	if !ok {
		return nil, model.ErrNotFound
	}

	return &obj, nil
}

func (s *memoryStore) List(_ context.Context, q dto.ListQuery) ([]model.Object, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]model.Object, 0, len(s.objects))
	for _, obj := range s.objects {
		if q.Status != "" && obj.Status != q.Status {
			continue
		}

		if q.Search != "" && !strings.Contains(strings.ToLower(obj.Title+" "+obj.Description), strings.ToLower(q.Search)) {
			continue
		}

		all = append(all, obj)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := int(q.Skip())
	if start > len(all) {
		start = len(all)
	}

	end := min(start+q.Limit, len(all))

	return all[start:end], int64(len(all)), nil
}

func (s *memoryStore) Update(_ context.Context, id string, u model.ObjectUpdate) (*model.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[id]
	if !ok {
		return nil, model.ErrNotFound
	}

	if len(u.FromStatuses) > 0 && !slices.Contains(u.FromStatuses, obj.Status) {
		return nil, model.ErrStatusConflict
	}

	if u.Status != nil {
		s.transitions = append(s.transitions, [2]model.Status{obj.Status, *u.Status})
		obj.Status = *u.Status
	}

	if u.Title != nil {
		obj.Title = *u.Title
	}

	if u.Description != nil {
		obj.Description = *u.Description
	}

	if u.BlobKey != nil {
		obj.BlobKey = *u.BlobKey
	}

	if u.BlobURL != nil {
		obj.BlobURL = *u.BlobURL
	}

	if u.Width != nil {
		obj.Width = u.Width
	}

	if u.Height != nil {
		obj.Height = u.Height
	}

	obj.UpdatedAt = time.Now().UTC()
	s.objects[id] = obj

	return &obj, nil
}

func (s *memoryStore) Remove(_ context.Context, id string) (*model.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[id]
	if !ok {
		return nil, model.ErrNotFound
	}

	delete(s.objects, id)

	return &obj, nil
}

func (s *memoryStore) Transitions() [][2]model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.transitions)
}

// memoryBlobs is an in-memory blob store whose Get can be made to fail.
type memoryBlobs struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	getErrs  []error
	signed   []string
	getCalls int
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{blobs: map[string][]byte{}}
}

func (b *memoryBlobs) Put(_ context.Context, bucket, key string, data []byte, _ string) (entity.BlobUploadResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.blobs[bucket+"/"+key] = data

	return entity.BlobUploadResult{
		Key:    key,
		URL:    "http://blobs.local/" + bucket + "/" + key,
		Bucket: bucket,
		Size:   int64(len(data)),
	}, nil
}

func (b *memoryBlobs) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.getCalls++
	if len(b.getErrs) > 0 {
		err := b.getErrs[0]
		b.getErrs = b.getErrs[1:]

		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, ok := b.blobs[bucket+"/"+key]
	if !ok {
		return nil, errors.New("no such key")
	}

	return data, nil
}

func (b *memoryBlobs) SignURL(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	url := "http://blobs.local/" + bucket + "/" + key + "?expires=" + ttl.String()
	b.signed = append(b.signed, url)

	return url, nil
}

func (b *memoryBlobs) Remove(_ context.Context, bucket, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.blobs, bucket+"/"+key)

	return nil
}

func (b *memoryBlobs) Has(bucket, key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, ok := b.blobs[bucket+"/"+key]

	return ok
}

type recordingQueue struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (q *recordingQueue) Publish(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.err != nil {
		return q.err
	}

	q.ids = append(q.ids, id)

	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
}

func (n *recordingNotifier) Publish(_ context.Context, notification model.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.sent = append(n.sent, notification)

	return nil
}

func (n *recordingNotifier) Last() model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.sent) == 0 {
		return model.Notification{}
	}

	return n.sent[len(n.sent)-1]
}

func (n *recordingNotifier) Statuses() []model.NotificationStatus {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]model.NotificationStatus, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.Status)
	}

	return out
}

type mockTransformer struct {
	mock.Mock
}

func (m *mockTransformer) Transform(ctx context.Context, data []byte) (entity.TransformResult, error) {
	args := m.Called(ctx, data)

	return args.Get(0).(entity.TransformResult), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)

	raw, _ := args.Get(0).([]byte)

	return raw, args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, pattern string) error {
	return m.Called(ctx, pattern).Error(0)
}

type fakeMessage struct {
	body    string
	attempt int
	acked   bool
	nacked  error
}

func (m *fakeMessage) Body() string { return m.body }
func (m *fakeMessage) Attempt() int { return m.attempt }
func (m *fakeMessage) Ack() error   { m.acked = true; return nil }
func (m *fakeMessage) Nack(reason error) error {
	m.nacked = reason

	return nil
}

type fakeReceiver struct {
	messages []*fakeMessage
}

func (r *fakeReceiver) Messages(ctx context.Context, _ string) (<-chan broker.Message, error) {
	out := make(chan broker.Message)

	go func() {
		defer close(out)

		for _, m := range r.messages {
			select {
			case out <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func pngPayload(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 200, G: uint8(y), B: uint8(x), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}
