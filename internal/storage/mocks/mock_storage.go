package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"crudapi/internal/storage"
)

// MockStorage records calls through testify. Put may return either a
// storage.ObjectInfo or a func(ctx, key, r, opt) storage.ObjectInfo that inspects
// the upload. A plain successful Put drains r, since a real store reads to EOF.
type MockStorage struct {
	mock.Mock
}

var _ storage.Storage = (*MockStorage)(nil)

func (m *MockStorage) Put(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key, r, opt)
	if f, ok := args.Get(0).(func(context.Context, string, io.Reader, storage.PutObjectOptions) storage.ObjectInfo); ok {
		return f(ctx, key, r, opt), args.Error(1)
	}
	if err := args.Error(1); err != nil {
		return storage.ObjectInfo{}, err
	}
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	info := args.Get(0).(storage.ObjectInfo)
	if info.Key == "" {
		info.Key = key
	}
	info.Size = n
	return info, nil
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}
