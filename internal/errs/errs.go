// Package errs defines HTTPException, the single error type carried between the
// data-access, service and controller layers.
package errs

import (
	"errors"
	"net/http"
)

// Messages shared by every resource.
const (
	MsgDataNotFound     = "Data Not Found"
	MsgResourceNotFound = "Resource not Found"
	MsgIDNotProvided    = "Id not provided"
	MsgNothingToUpdate  = "Nothing to update"
	MsgFilterRequired   = "Filter required"
	MsgInvalidBody      = "Invalid request body"
	MsgValidationFailed = "Validation failed"
	MsgInternal         = "Internal Server Error"
	MsgEmptyBatch       = "At least one document is required"
)

// FieldError is one failed rule on one request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPException carries an HTTP status code and a client-safe message.
// Err keeps the original cause for logging; it is never rendered.
type HTTPException struct {
	ErrorCode int          `json:"errorCode"`
	Message   string       `json:"message"`
	Fields    []FieldError `json:"fields,omitempty"`
	Err       error        `json:"-"`
}

func (e *HTTPException) Error() string {
	return e.Message
}

func (e *HTTPException) Unwrap() error {
	return e.Err
}

// New creates an HTTPException without a cause.
func New(code int, message string) *HTTPException {
	return &HTTPException{ErrorCode: code, Message: message}
}

// Wrap creates an HTTPException whose message is taken from err.
func Wrap(code int, err error) *HTTPException {
	if err == nil {
		return nil
	}
	return &HTTPException{ErrorCode: code, Message: err.Error(), Err: err}
}

// NotFound is the data-access failure for a query that matched nothing.
func NotFound(message string) *HTTPException {
	return New(http.StatusBadRequest, message)
}

// Invalid is the 400 returned when request validation fails.
func Invalid(fields []FieldError) *HTTPException {
	return &HTTPException{ErrorCode: http.StatusBadRequest, Message: MsgValidationFailed, Fields: fields}
}

// From normalises any error into a fresh HTTPException. An HTTPException anywhere in
// the chain keeps its code and message; anything else becomes a 500 carrying the
// error text.
func From(err error) *HTTPException {
	if err == nil {
		return nil
	}
	var he *HTTPException
	if errors.As(err, &he) {
		return &HTTPException{ErrorCode: he.ErrorCode, Message: he.Message, Fields: he.Fields, Err: err}
	}
	return Wrap(http.StatusInternalServerError, err)
}

// StatusOf returns the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	var he *HTTPException
	if errors.As(err, &he) && he.ErrorCode > 0 {
		return he.ErrorCode
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client message for err, defaulting to "Internal Server Error".
func MessageOf(err error) string {
	var he *HTTPException
	if errors.As(err, &he) && he.Message != "" {
		return he.Message
	}
	return MsgInternal
}
