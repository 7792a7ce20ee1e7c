// Package repository contains the generic data-access contract.
// Implementations live in subpackages (mongodb, postgres) inside this directory.
package repository

import (
	"context"

	"crudapi/internal/model"
)

// IDField is the filter and sort key naming a document's identifier.
const IDField = "id"

// Repository is the data-access layer for one collection of T.
// Every failure is returned as an *errs.HTTPException.
type Repository[T model.Entity[T]] interface {
	// Create inserts doc, assigning an id when doc has none, and returns the stored document.
	Create(ctx context.Context, doc T) (T, error)

	// CreateMany inserts docs in one round trip, assigning missing ids, and returns
	// them in input order. An empty slice is a no-op.
	CreateMany(ctx context.Context, docs []T) ([]T, error)

	// FindAll returns every document matching q. An empty query matches everything.
	FindAll(ctx context.Context, q Query) ([]T, error)

	// FindOne returns the first match or a "Data Not Found" exception.
	FindOne(ctx context.Context, q Query) (T, error)

	// UpdateOne merges p into the first match and returns the updated document.
	// It never inserts; no match yields a "Resource not Found" exception.
	UpdateOne(ctx context.Context, q Query, p Patch) (T, error)

	// UpdateAll merges p into every match.
	UpdateAll(ctx context.Context, q Query, p Patch) error

	// DeleteOne checks existence through FindOne, then deletes that document.
	DeleteOne(ctx context.Context, q Query) error

	// DeleteAll deletes every match without an existence check.
	DeleteAll(ctx context.Context, q Query) error

	// FindAllPaginated returns the page-th (1-indexed) window of pq.Limit matches.
	FindAllPaginated(ctx context.Context, q Query, pq PageQuery) ([]T, error)

	// Count returns the number of documents matching q.
	Count(ctx context.Context, q Query) (int64, error)
}
