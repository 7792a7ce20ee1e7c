package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"crudapi/internal/errs"
	"crudapi/internal/model"
	"crudapi/internal/repository"
)

// CRUDService defines the use cases shared by every resource.
// Failures are always *errs.HTTPException values carrying the data-access code and message.
type CRUDService[T model.Entity[T]] interface {
	Add(ctx context.Context, data T) (T, error)
	AddMany(ctx context.Context, data []T) ([]T, error)
	FindAll(ctx context.Context, q repository.Query) ([]T, error)
	FindOne(ctx context.Context, q repository.Query) (T, error)
	UpdateOne(ctx context.Context, q repository.Query, p repository.Patch) (T, error)
	UpdateAll(ctx context.Context, q repository.Query, p repository.Patch) error
	DeleteOne(ctx context.Context, q repository.Query) error
	DeleteAll(ctx context.Context, q repository.Query) error

	// FindAllPaginated returns one page of matches with the total count of the same query.
	FindAllPaginated(ctx context.Context, pq repository.PageQuery, q repository.Query) (*repository.PageResult[T], error)
}

// crudService is a concrete implementation of CRUDService.
type crudService[T model.Entity[T]] struct {
	repo repository.Repository[T]
}

// NewCRUDService constructs a new CRUDService over repo.
func NewCRUDService[T model.Entity[T]](repo repository.Repository[T]) CRUDService[T] {
	return &crudService[T]{repo: repo}
}

func (s *crudService[T]) Add(ctx context.Context, data T) (T, error) {
	doc, err := s.repo.Create(ctx, data)
	if err != nil {
		var zero T
		return zero, errs.From(err)
	}
	return doc, nil
}

func (s *crudService[T]) AddMany(ctx context.Context, data []T) ([]T, error) {
	if len(data) == 0 {
		return make([]T, 0), nil
	}
	docs, err := s.repo.CreateMany(ctx, data)
	if err != nil {
		return nil, errs.From(err)
	}
	return docs, nil
}

func (s *crudService[T]) FindAll(ctx context.Context, q repository.Query) ([]T, error) {
	items, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, errs.From(err)
	}
	return items, nil
}

func (s *crudService[T]) FindOne(ctx context.Context, q repository.Query) (T, error) {
	doc, err := s.repo.FindOne(ctx, q)
	if err != nil {
		var zero T
		return zero, errs.From(err)
	}
	return doc, nil
}

func (s *crudService[T]) UpdateOne(ctx context.Context, q repository.Query, p repository.Patch) (T, error) {
	doc, err := s.repo.UpdateOne(ctx, q, p)
	if err != nil {
		var zero T
		return zero, errs.From(err)
	}
	return doc, nil
}

func (s *crudService[T]) UpdateAll(ctx context.Context, q repository.Query, p repository.Patch) error {
	if err := s.repo.UpdateAll(ctx, q, p); err != nil {
		return errs.From(err)
	}
	return nil
}

func (s *crudService[T]) DeleteOne(ctx context.Context, q repository.Query) error {
	if err := s.repo.DeleteOne(ctx, q); err != nil {
		return errs.From(err)
	}
	return nil
}

func (s *crudService[T]) DeleteAll(ctx context.Context, q repository.Query) error {
	if err := s.repo.DeleteAll(ctx, q); err != nil {
		return errs.From(err)
	}
	return nil
}

// FindAllPaginated runs the page query and the count concurrently; both see the same
// filter, so totalCount never depends on page or limit.
func (s *crudService[T]) FindAllPaginated(ctx context.Context, pq repository.PageQuery, q repository.Query) (*repository.PageResult[T], error) {
	pq = pq.Normalize()

	var (
		items []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.FindAllPaginated(gctx, q, pq)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errs.From(err)
	}

	if items == nil {
		items = make([]T, 0)
	}
	return &repository.PageResult[T]{
		Items:       items,
		CurrentPage: pq.Page,
		TotalPages:  repository.TotalPages(total, pq.Limit),
		TotalCount:  total,
	}, nil
}
