package repository

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudapi/internal/errs"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 7, 4},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestPageQuery_Normalize(t *testing.T) {
	pq := PageQuery{}.Normalize()
	assert.Equal(t, DefaultPage, pq.Page)
	assert.Equal(t, DefaultLimit, pq.Limit)
	assert.Equal(t, IDField, pq.Sort.Field)
	assert.Equal(t, 0, pq.Offset())

	pq = PageQuery{Page: 3, Limit: 1000, Sort: Sort{Field: "name"}}.Normalize()
	assert.Equal(t, MaxLimit, pq.Limit)
	assert.Equal(t, 200, pq.Offset())
	assert.Equal(t, "name", pq.Sort.Field)
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, Sort{Field: IDField}, ParseSort(""))
	assert.Equal(t, Sort{Field: "name"}, ParseSort("name"))
	assert.Equal(t, Sort{Field: "created_at", Desc: true}, ParseSort(" -created_at "))
}

func TestFilterOf(t *testing.T) {
	assert.Empty(t, FilterOf(nil))
	assert.Empty(t, FilterOf(MatchAll))
	assert.Equal(t, map[string]any{"id": "x"}, FilterOf(ByID("x")))
}

func TestFieldsOf(t *testing.T) {
	_, err := FieldsOf(nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))

	_, err = FieldsOf(Set{})
	assert.Equal(t, errs.MsgNothingToUpdate, errs.MessageOf(err))

	fields, err := FieldsOf(Set{"name": "a"})
	require.NoError(t, err)
	assert.Equal(t, "a", fields["name"])
}
