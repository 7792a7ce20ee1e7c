package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"crudapi/internal/errs"
	"crudapi/internal/model"
	"crudapi/internal/repository"
)

const uniqueViolation = "23505"

// DocumentTable is a PostgreSQL implementation of repository.Repository that keeps
// documents as JSONB rows in the shared documents table, partitioned by collection.
// Filters use JSONB containment (@>) so they match the same equality semantics as
// the Mongo backend.
type DocumentTable[T model.Entity[T]] struct {
	db         *sql.DB
	collection string
	newID      func() string
}

var _ repository.Repository[model.Item] = (*DocumentTable[model.Item])(nil)

// NewDocumentTable creates a repository bound to one collection.
func NewDocumentTable[T model.Entity[T]](db *sql.DB, collection string) *DocumentTable[T] {
	return &DocumentTable[T]{db: db, collection: collection, newID: uuid.NewString}
}

// Name returns the bound collection name.
func (r *DocumentTable[T]) Name() string {
	return r.collection
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentTable[T]) Create(ctx context.Context, doc T) (T, error) {
	var zero T
	if doc.GetID() == "" {
		doc = doc.WithID(r.newID())
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return zero, errs.Wrap(http.StatusBadRequest, err)
	}

	const q = `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		RETURNING data
	`
	row := r.db.QueryRowContext(ctx, q, r.collection, doc.GetID(), string(data))
	return r.scanOne(row, "")
}

// CreateMany inserts docs with one multi-row INSERT. The statement is atomic, so a
// conflict on any row stores none of them.
func (r *DocumentTable[T]) CreateMany(ctx context.Context, docs []T) ([]T, error) {
	if len(docs) == 0 {
		return make([]T, 0), nil
	}

	out := make([]T, len(docs))
	args := make([]any, 1, 1+2*len(docs))
	args[0] = r.collection

	var q strings.Builder
	q.WriteString("INSERT INTO documents (collection, id, data) VALUES ")
	for i, doc := range docs {
		if doc.GetID() == "" {
			doc = doc.WithID(r.newID())
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, errs.Wrap(http.StatusBadRequest, err)
		}
		out[i] = doc
		args = append(args, doc.GetID(), string(data))

		if i > 0 {
			q.WriteString(", ")
		}
		fmt.Fprintf(&q, "($1, $%d, $%d::jsonb)", len(args)-1, len(args))
	}

	if _, err := r.db.ExecContext(ctx, q.String(), args...); err != nil {
		return nil, storeError(err)
	}
	return out, nil
}

// FindAll returns every matching document.
func (r *DocumentTable[T]) FindAll(ctx context.Context, q repository.Query) ([]T, error) {
	filter, err := marshalFilter(q)
	if err != nil {
		return nil, err
	}
	const qAll = `
		SELECT data
		FROM documents
		WHERE collection = $1 AND data @> $2::jsonb
	`
	rows, err := r.db.QueryContext(ctx, qAll, r.collection, filter)
	if err != nil {
		return nil, storeError(err)
	}
	return r.scanAll(rows)
}

// FindOne fetches the first match in id order.
func (r *DocumentTable[T]) FindOne(ctx context.Context, q repository.Query) (T, error) {
	filter, err := marshalFilter(q)
	if err != nil {
		var zero T
		return zero, err
	}
	const qOne = `
		SELECT data
		FROM documents
		WHERE collection = $1 AND data @> $2::jsonb
		ORDER BY id
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, qOne, r.collection, filter)
	return r.scanOne(row, errs.MsgDataNotFound)
}

// UpdateOne shallow-merges the patch into the first match in a single statement.
func (r *DocumentTable[T]) UpdateOne(ctx context.Context, q repository.Query, p repository.Patch) (T, error) {
	var zero T
	filter, err := marshalFilter(q)
	if err != nil {
		return zero, err
	}
	patch, err := marshalPatch(p)
	if err != nil {
		return zero, err
	}

	const qUpdate = `
		WITH target AS (
			SELECT id FROM documents
			WHERE collection = $1 AND data @> $2::jsonb
			ORDER BY id
			LIMIT 1
		)
		UPDATE documents d
		SET data = d.data || $3::jsonb, updated_at = now()
		FROM target
		WHERE d.collection = $1 AND d.id = target.id
		RETURNING d.data
	`
	row := r.db.QueryRowContext(ctx, qUpdate, r.collection, filter, patch)
	return r.scanOne(row, errs.MsgResourceNotFound)
}

// UpdateAll shallow-merges the patch into every match.
func (r *DocumentTable[T]) UpdateAll(ctx context.Context, q repository.Query, p repository.Patch) error {
	filter, err := marshalFilter(q)
	if err != nil {
		return err
	}
	patch, err := marshalPatch(p)
	if err != nil {
		return err
	}
	const qUpdate = `
		UPDATE documents
		SET data = data || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND data @> $2::jsonb
	`
	if _, err := r.db.ExecContext(ctx, qUpdate, r.collection, filter, patch); err != nil {
		return storeError(err)
	}
	return nil
}

// DeleteOne verifies existence through FindOne and removes that row.
func (r *DocumentTable[T]) DeleteOne(ctx context.Context, q repository.Query) error {
	doc, err := r.FindOne(ctx, q)
	if err != nil {
		return err
	}
	const qDelete = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, qDelete, r.collection, doc.GetID()); err != nil {
		return storeError(err)
	}
	return nil
}

// DeleteAll removes every match. It does not return an error when nothing matched.
func (r *DocumentTable[T]) DeleteAll(ctx context.Context, q repository.Query) error {
	filter, err := marshalFilter(q)
	if err != nil {
		return err
	}
	const qDelete = `DELETE FROM documents WHERE collection = $1 AND data @> $2::jsonb`
	if _, err := r.db.ExecContext(ctx, qDelete, r.collection, filter); err != nil {
		return storeError(err)
	}
	return nil
}

// FindAllPaginated returns one LIMIT/OFFSET window ordered by the sort field, then id.
func (r *DocumentTable[T]) FindAllPaginated(ctx context.Context, q repository.Query, pq repository.PageQuery) ([]T, error) {
	pq = pq.Normalize()
	filter, err := marshalFilter(q)
	if err != nil {
		return nil, err
	}

	const qAsc = `
		SELECT data
		FROM documents
		WHERE collection = $1 AND data @> $2::jsonb
		ORDER BY data->>$3 ASC, id ASC
		LIMIT $4 OFFSET $5
	`
	const qDesc = `
		SELECT data
		FROM documents
		WHERE collection = $1 AND data @> $2::jsonb
		ORDER BY data->>$3 DESC, id DESC
		LIMIT $4 OFFSET $5
	`
	qList := qAsc
	if pq.Sort.Desc {
		qList = qDesc
	}
	rows, err := r.db.QueryContext(ctx, qList, r.collection, filter, pq.Sort.Field, pq.Limit, pq.Offset())
	if err != nil {
		return nil, storeError(err)
	}
	return r.scanAll(rows)
}

// Count returns the number of matching rows.
func (r *DocumentTable[T]) Count(ctx context.Context, q repository.Query) (int64, error) {
	filter, err := marshalFilter(q)
	if err != nil {
		return 0, err
	}
	const qCount = `SELECT COUNT(*) FROM documents WHERE collection = $1 AND data @> $2::jsonb`
	var total int64
	if err := r.db.QueryRowContext(ctx, qCount, r.collection, filter).Scan(&total); err != nil {
		return 0, storeError(err)
	}
	return total, nil
}

// scanOne decodes a single data column. notFound is the message used for
// sql.ErrNoRows; an empty message treats it as a store error.
func (r *DocumentTable[T]) scanOne(row *sql.Row, notFound string) (T, error) {
	var zero T
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) && notFound != "" {
			return zero, errs.NotFound(notFound)
		}
		return zero, storeError(err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, errs.Wrap(http.StatusInternalServerError, fmt.Errorf("decode document: %w", err))
	}
	return out, nil
}

func (r *DocumentTable[T]) scanAll(rows *sql.Rows) ([]T, error) {
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, storeError(err)
		}
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, errs.Wrap(http.StatusInternalServerError, fmt.Errorf("decode document: %w", err))
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err)
	}
	return items, nil
}

func marshalFilter(q repository.Query) (string, error) {
	b, err := json.Marshal(repository.FilterOf(q))
	if err != nil {
		return "", errs.Wrap(http.StatusBadRequest, err)
	}
	return string(b), nil
}

// marshalPatch renders p without the immutable id field.
func marshalPatch(p repository.Patch) (string, error) {
	fields, err := repository.FieldsOf(p)
	if err != nil {
		return "", err
	}
	set := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == repository.IDField {
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		return "", errs.New(http.StatusBadRequest, errs.MsgNothingToUpdate)
	}
	b, err := json.Marshal(set)
	if err != nil {
		return "", errs.Wrap(http.StatusBadRequest, err)
	}
	return string(b), nil
}

func storeError(err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		return errs.Wrap(http.StatusConflict, err)
	case errors.Is(err, context.DeadlineExceeded):
		return errs.Wrap(http.StatusGatewayTimeout, err)
	default:
		return errs.Wrap(http.StatusInternalServerError, err)
	}
}
