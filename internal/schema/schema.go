// Package schema validates decoded request objects against ordered field tables.
package schema

import (
	"errors"
	"fmt"

	"github.com/janisto/scoring-api/internal/platform/validate"
)

// Failure reasons reported by FieldError.
var (
	ErrMissing = errors.New("field is required")
	ErrNull    = errors.New("field must not be null")
)

// Field declares one named attribute of a schema.
type Field struct {
	Name     string
	Required bool
	Nullable bool
	Check    validate.Check
}

// Schema is an ordered set of field declarations.
type Schema struct {
	Name   string
	Fields []Field
}

// FieldError identifies the first field that failed validation.
type FieldError struct {
	Schema string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Schema, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Validate checks values against every declared field in order and returns a
// *FieldError for the first violation. Keys not declared by the schema are ignored.
func (s Schema) Validate(values map[string]any) error {
	for _, f := range s.Fields {
		value, present := values[f.Name]
		switch {
		case !present:
			if f.Required {
				return &FieldError{Schema: s.Name, Field: f.Name, Err: ErrMissing}
			}
		case value == nil:
			if !f.Nullable {
				return &FieldError{Schema: s.Name, Field: f.Name, Err: ErrNull}
			}
		case f.Check != nil:
			if err := f.Check(value); err != nil {
				return &FieldError{Schema: s.Name, Field: f.Name, Err: err}
			}
		}
	}
	return nil
}

// Present reports whether key was supplied with a non-null value.
func Present(values map[string]any, key string) bool {
	v, ok := values[key]
	return ok && v != nil
}
