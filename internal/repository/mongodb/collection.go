package mongodb

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crudapi/internal/errs"
	"crudapi/internal/model"
	"crudapi/internal/repository"
)

const mongoIDField = "_id"

// Collection is a MongoDB implementation of repository.Repository bound to a single
// collection. It holds no state besides the collection handle and is safe for
// concurrent use.
type Collection[T model.Entity[T]] struct {
	coll  *mongo.Collection
	newID func() string
}

var _ repository.Repository[model.Item] = (*Collection[model.Item])(nil)

// NewCollection creates a repository over coll. The handle comes from a client opened
// once at startup.
func NewCollection[T model.Entity[T]](coll *mongo.Collection) *Collection[T] {
	return &Collection[T]{coll: coll, newID: uuid.NewString}
}

// Name returns the bound collection name.
func (c *Collection[T]) Name() string {
	return c.coll.Name()
}

func (c *Collection[T]) Create(ctx context.Context, doc T) (T, error) {
	if doc.GetID() == "" {
		doc = doc.WithID(c.newID())
	}
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		var zero T
		return zero, storeError(err)
	}
	return doc, nil
}

// CreateMany runs an ordered InsertMany. On a write error the documents before the
// failing one stay inserted, matching the driver's ordered semantics.
func (c *Collection[T]) CreateMany(ctx context.Context, docs []T) ([]T, error) {
	if len(docs) == 0 {
		return make([]T, 0), nil
	}
	out := make([]T, len(docs))
	batch := make([]any, len(docs))
	for i, doc := range docs {
		if doc.GetID() == "" {
			doc = doc.WithID(c.newID())
		}
		out[i] = doc
		batch[i] = doc
	}
	if _, err := c.coll.InsertMany(ctx, batch); err != nil {
		return nil, storeError(err)
	}
	return out, nil
}

func (c *Collection[T]) FindAll(ctx context.Context, q repository.Query) ([]T, error) {
	return c.find(ctx, q, options.Find())
}

func (c *Collection[T]) FindOne(ctx context.Context, q repository.Query) (T, error) {
	var out T
	err := c.coll.FindOne(ctx, toFilter(q)).Decode(&out)
	if err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, errs.NotFound(errs.MsgDataNotFound)
		}
		return zero, storeError(err)
	}
	return out, nil
}

func (c *Collection[T]) UpdateOne(ctx context.Context, q repository.Query, p repository.Patch) (T, error) {
	var zero T
	update, err := toUpdate(p)
	if err != nil {
		return zero, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out T
	err = c.coll.FindOneAndUpdate(ctx, toFilter(q), update, opts).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, errs.NotFound(errs.MsgResourceNotFound)
		}
		return zero, storeError(err)
	}
	return out, nil
}

func (c *Collection[T]) UpdateAll(ctx context.Context, q repository.Query, p repository.Patch) error {
	update, err := toUpdate(p)
	if err != nil {
		return err
	}
	if _, err := c.coll.UpdateMany(ctx, toFilter(q), update); err != nil {
		return storeError(err)
	}
	return nil
}

func (c *Collection[T]) DeleteOne(ctx context.Context, q repository.Query) error {
	doc, err := c.FindOne(ctx, q)
	if err != nil {
		return err
	}
	if _, err := c.coll.DeleteOne(ctx, bson.M{mongoIDField: doc.GetID()}); err != nil {
		return storeError(err)
	}
	return nil
}

func (c *Collection[T]) DeleteAll(ctx context.Context, q repository.Query) error {
	if _, err := c.coll.DeleteMany(ctx, toFilter(q)); err != nil {
		return storeError(err)
	}
	return nil
}

func (c *Collection[T]) FindAllPaginated(ctx context.Context, q repository.Query, pq repository.PageQuery) ([]T, error) {
	pq = pq.Normalize()
	opts := options.Find().
		SetSort(toSort(pq.Sort)).
		SetSkip(int64(pq.Offset())).
		SetLimit(int64(pq.Limit))
	return c.find(ctx, q, opts)
}

func (c *Collection[T]) Count(ctx context.Context, q repository.Query) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, toFilter(q))
	if err != nil {
		return 0, storeError(err)
	}
	return n, nil
}

func (c *Collection[T]) find(ctx context.Context, q repository.Query, opts *options.FindOptions) ([]T, error) {
	cur, err := c.coll.Find(ctx, toFilter(q), opts)
	if err != nil {
		return nil, storeError(err)
	}
	defer cur.Close(ctx)

	items := make([]T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, storeError(err)
	}
	return items, nil
}

func fieldName(f string) string {
	if f == repository.IDField {
		return mongoIDField
	}
	return f
}

func toFilter(q repository.Query) bson.M {
	filter := bson.M{}
	for k, v := range repository.FilterOf(q) {
		filter[fieldName(k)] = v
	}
	return filter
}

// toUpdate renders p as a $set document. The id is immutable and silently dropped.
func toUpdate(p repository.Patch) (bson.M, error) {
	fields, err := repository.FieldsOf(p)
	if err != nil {
		return nil, err
	}
	set := bson.M{}
	for k, v := range fields {
		if k == repository.IDField || k == mongoIDField {
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		return nil, errs.New(http.StatusBadRequest, errs.MsgNothingToUpdate)
	}
	return bson.M{"$set": set}, nil
}

func toSort(s repository.Sort) bson.D {
	dir := 1
	if s.Desc {
		dir = -1
	}
	field := fieldName(s.Field)
	sort := bson.D{{Key: field, Value: dir}}
	if field != mongoIDField {
		sort = append(sort, bson.E{Key: mongoIDField, Value: dir})
	}
	return sort
}

// storeError maps driver failures onto HTTP statuses, keeping the driver message.
func storeError(err error) error {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return errs.Wrap(http.StatusConflict, err)
	case mongo.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return errs.Wrap(http.StatusGatewayTimeout, err)
	default:
		return errs.Wrap(http.StatusInternalServerError, err)
	}
}
