package repository

import (
	"net/http"

	"crudapi/internal/errs"
)

// Query selects documents. Resources build queries from typed request structs;
// the rendered filter is a field -> equality map passed verbatim to the store.
type Query interface {
	Filter() map[string]any
}

// Patch is a partial update: the returned fields are merged into matching documents.
type Patch interface {
	Fields() map[string]any
}

// Match is a Query over explicit field values.
type Match map[string]any

func (m Match) Filter() map[string]any { return m }

// Set is a Patch over explicit field values.
type Set map[string]any

func (s Set) Fields() map[string]any { return s }

// MatchAll matches every document in the collection.
var MatchAll Query = Match{}

// ByID matches the document with the given id.
func ByID(id string) Query {
	return Match{IDField: id}
}

// FilterOf renders q, treating a nil query as MatchAll.
func FilterOf(q Query) map[string]any {
	if q == nil {
		return map[string]any{}
	}
	f := q.Filter()
	if f == nil {
		return map[string]any{}
	}
	return f
}

// FieldsOf renders p and rejects empty patches.
func FieldsOf(p Patch) (map[string]any, error) {
	if p == nil {
		return nil, errs.New(http.StatusBadRequest, errs.MsgNothingToUpdate)
	}
	fields := p.Fields()
	if len(fields) == 0 {
		return nil, errs.New(http.StatusBadRequest, errs.MsgNothingToUpdate)
	}
	return fields, nil
}
