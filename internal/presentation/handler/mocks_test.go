package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gallery/internal/domain/dto"
	"gallery/internal/domain/model"
)

type mockCreator struct{ mock.Mock }

func (m *mockCreator) CreateObject(ctx context.Context, req dto.CreateObjectRequest) (*model.Object, error) {
	args := m.Called(ctx, req)
	obj, _ := args.Get(0).(*model.Object)

	return obj, args.Error(1)
}

type mockLister struct{ mock.Mock }

func (m *mockLister) ListObjects(ctx context.Context, q dto.ListQuery) (dto.ObjectPage, error) {
	args := m.Called(ctx, q)

	return args.Get(0).(dto.ObjectPage), args.Error(1)
}

type mockGetter struct{ mock.Mock }

func (m *mockGetter) GetObject(ctx context.Context, id string) (*model.Object, error) {
	args := m.Called(ctx, id)
	obj, _ := args.Get(0).(*model.Object)

	return obj, args.Error(1)
}

type mockUpdater struct{ mock.Mock }

func (m *mockUpdater) UpdateObject(ctx context.Context, id string, req dto.UpdateObjectRequest) (*model.Object, error) {
	args := m.Called(ctx, id, req)
	obj, _ := args.Get(0).(*model.Object)

	return obj, args.Error(1)
}

type mockDeleter struct{ mock.Mock }

func (m *mockDeleter) DeleteObject(ctx context.Context, id string) (*model.Object, error) {
	args := m.Called(ctx, id)
	obj, _ := args.Get(0).(*model.Object)

	return obj, args.Error(1)
}

type mockDownloader struct{ mock.Mock }

func (m *mockDownloader) GetDownloadURL(ctx context.Context, id string) (dto.DownloadURL, error) {
	args := m.Called(ctx, id)

	return args.Get(0).(dto.DownloadURL), args.Error(1)
}
