package mocks

import (
	"context"

	"crudapi/internal/model"
	"crudapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockRepository[T model.Entity[T]] struct {
	mock.Mock
}

var _ repository.Repository[model.Item] = (*MockRepository[model.Item])(nil)

func (m *MockRepository[T]) Create(ctx context.Context, doc T) (T, error) {
	args := m.Called(ctx, doc)
	return entity[T](args.Get(0)), args.Error(1)
}

func (m *MockRepository[T]) CreateMany(ctx context.Context, docs []T) ([]T, error) {
	args := m.Called(ctx, docs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) FindAll(ctx context.Context, q repository.Query) ([]T, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) FindOne(ctx context.Context, q repository.Query) (T, error) {
	args := m.Called(ctx, q)
	return entity[T](args.Get(0)), args.Error(1)
}

func (m *MockRepository[T]) UpdateOne(ctx context.Context, q repository.Query, p repository.Patch) (T, error) {
	args := m.Called(ctx, q, p)
	return entity[T](args.Get(0)), args.Error(1)
}

func (m *MockRepository[T]) UpdateAll(ctx context.Context, q repository.Query, p repository.Patch) error {
	args := m.Called(ctx, q, p)
	return args.Error(0)
}

func (m *MockRepository[T]) DeleteOne(ctx context.Context, q repository.Query) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockRepository[T]) DeleteAll(ctx context.Context, q repository.Query) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockRepository[T]) FindAllPaginated(ctx context.Context, q repository.Query, pq repository.PageQuery) ([]T, error) {
	args := m.Called(ctx, q, pq)
	if f, ok := args.Get(0).(func(context.Context, repository.Query, repository.PageQuery) []T); ok {
		return f(ctx, q, pq), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) Count(ctx context.Context, q repository.Query) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func entity[T any](v any) T {
	if out, ok := v.(T); ok {
		return out
	}
	var zero T
	return zero
}
