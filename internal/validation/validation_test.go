package validation

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudapi/internal/errs"
)

type payload struct {
	Name     string   `json:"name" validate:"required,max=5"`
	Quantity *int     `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Tags     []string `json:"tags" validate:"omitempty,max=2,dive,min=1"`
	Kind     string   `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestValidate(t *testing.T) {
	neg := -1
	tests := []struct {
		name   string
		in     payload
		fields []errs.FieldError
	}{
		{name: "valid", in: payload{Name: "ok", Tags: []string{"x"}}},
		{
			name:   "required uses json name",
			in:     payload{},
			fields: []errs.FieldError{{Field: "name", Error: "is required"}},
		},
		{
			name: "several failures",
			in:   payload{Name: "toolong", Quantity: &neg, Kind: "c"},
			fields: []errs.FieldError{
				{Field: "name", Error: "must not exceed 5 characters"},
				{Field: "quantity", Error: "must be greater than or equal to 0"},
				{Field: "kind", Error: "must be one of: a b"},
			},
		},
		{
			name:   "slice too long",
			in:     payload{Name: "ok", Tags: []string{"a", "b", "c"}},
			fields: []errs.FieldError{{Field: "tags", Error: "must not contain more than 2 items"}},
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			var he *errs.HTTPException
			require.ErrorAs(t, err, &he)
			assert.Equal(t, http.StatusBadRequest, he.ErrorCode)
			assert.Equal(t, errs.MsgValidationFailed, he.Message)
			assert.Equal(t, tt.fields, he.Fields)
		})
	}
}

func TestValidate_NotAStruct(t *testing.T) {
	err := New().Validate("plain")
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))
}
