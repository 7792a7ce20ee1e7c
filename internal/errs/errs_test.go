package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "keeps exception fields",
			err:      New(http.StatusBadRequest, MsgDataNotFound),
			wantCode: http.StatusBadRequest,
			wantMsg:  MsgDataNotFound,
		},
		{
			name:     "finds wrapped exception",
			err:      fmt.Errorf("find: %w", New(http.StatusConflict, "duplicate key")),
			wantCode: http.StatusConflict,
			wantMsg:  "duplicate key",
		},
		{
			name:     "plain error becomes 500",
			err:      errors.New("connection reset"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := From(tt.err)
			assert.Equal(t, tt.wantCode, got.ErrorCode)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.Nil(t, From(nil))
}

func TestFrom_ReturnsFreshValue(t *testing.T) {
	orig := New(http.StatusBadRequest, MsgResourceNotFound)
	got := From(orig)

	assert.NotSame(t, orig, got)
	assert.Equal(t, orig.ErrorCode, got.ErrorCode)
	assert.Equal(t, orig.Message, got.Message)
}

func TestStatusAndMessageOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(NotFound(MsgDataNotFound)))
	assert.Equal(t, MsgDataNotFound, MessageOf(NotFound(MsgDataNotFound)))

	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
	assert.Equal(t, MsgInternal, MessageOf(errors.New("boom")))

	assert.Equal(t, http.StatusInternalServerError, StatusOf(&HTTPException{Message: "no code"}))
	assert.Equal(t, MsgInternal, MessageOf(&HTTPException{ErrorCode: http.StatusTeapot}))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(http.StatusBadRequest, nil))

	cause := errors.New("bad value")
	he := Wrap(http.StatusBadRequest, cause)
	assert.Equal(t, "bad value", he.Error())
	assert.Equal(t, cause, errors.Unwrap(he))
}

func TestInvalid_KeepsFieldsThroughFrom(t *testing.T) {
	fields := []FieldError{{Field: "name", Error: "is required"}}
	got := From(fmt.Errorf("bind: %w", Invalid(fields)))

	assert.Equal(t, http.StatusBadRequest, got.ErrorCode)
	assert.Equal(t, MsgValidationFailed, got.Message)
	assert.Equal(t, fields, got.Fields)
}
