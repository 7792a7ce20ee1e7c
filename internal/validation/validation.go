// Package validation checks request payloads against their `validate` struct tags
// and turns failures into field errors the client can read.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"crudapi/internal/errs"
)

// Validator is consulted by controllers before any service call.
type Validator interface {
	Validate(v any) error
}

type structValidator struct {
	v *validator.Validate
}

// New returns a Validator reporting fields by their JSON names.
func New() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return &structValidator{v: v}
}

// Validate returns nil or an *errs.HTTPException (400 "Validation failed") listing
// every failed field.
func (s *structValidator) Validate(v any) error {
	err := s.v.Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs.Invalid([]errs.FieldError{{Field: "body", Error: err.Error()}})
	}

	fields := make([]errs.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, errs.FieldError{Field: fe.Field(), Error: message(fe)})
	}
	return errs.Invalid(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must not contain more than %s items", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "dive":
		return "some items are invalid"
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s:%s", fe.Tag(), fe.Param())
	}
	return fe.Tag()
}
