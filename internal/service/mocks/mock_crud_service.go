package mocks

import (
	"context"

	"crudapi/internal/model"
	"crudapi/internal/repository"
	"crudapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockCRUDService[T model.Entity[T]] struct {
	mock.Mock
}

var _ service.CRUDService[model.Item] = (*MockCRUDService[model.Item])(nil)

func (m *MockCRUDService[T]) Add(ctx context.Context, data T) (T, error) {
	args := m.Called(ctx, data)
	return entity[T](args.Get(0)), args.Error(1)
}

func (m *MockCRUDService[T]) AddMany(ctx context.Context, data []T) ([]T, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockCRUDService[T]) FindAll(ctx context.Context, q repository.Query) ([]T, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockCRUDService[T]) FindOne(ctx context.Context, q repository.Query) (T, error) {
	args := m.Called(ctx, q)
	return entity[T](args.Get(0)), args.Error(1)
}

func (m *MockCRUDService[T]) UpdateOne(ctx context.Context, q repository.Query, p repository.Patch) (T, error) {
	args := m.Called(ctx, q, p)
	return entity[T](args.Get(0)), args.Error(1)
}

func (m *MockCRUDService[T]) UpdateAll(ctx context.Context, q repository.Query, p repository.Patch) error {
	args := m.Called(ctx, q, p)
	return args.Error(0)
}

func (m *MockCRUDService[T]) DeleteOne(ctx context.Context, q repository.Query) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockCRUDService[T]) DeleteAll(ctx context.Context, q repository.Query) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockCRUDService[T]) FindAllPaginated(ctx context.Context, pq repository.PageQuery, q repository.Query) (*repository.PageResult[T], error) {
	args := m.Called(ctx, pq, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[T]), args.Error(1)
}

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, q repository.Query) (*service.ExportResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

func entity[T any](v any) T {
	if out, ok := v.(T); ok {
		return out
	}
	var zero T
	return zero
}
