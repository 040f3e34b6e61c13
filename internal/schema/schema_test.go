package schema

import (
	"errors"
	"testing"

	"github.com/janisto/scoring-api/internal/platform/validate"
)

func testSchema() Schema {
	v := validate.New()
	return Schema{
		Name: "test",
		Fields: []Field{
			{Name: "required_strict", Required: true, Nullable: false, Check: v.String},
			{Name: "required_nullable", Required: true, Nullable: true, Check: v.String},
			{Name: "optional", Required: false, Nullable: true, Check: v.Email},
			{Name: "optional_strict", Required: false, Nullable: false, Check: v.Gender},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	err := testSchema().Validate(map[string]any{
		"required_strict":   "a",
		"required_nullable": nil,
		"extra":             123,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		field  string
		reason error
	}{
		{
			name:   "required missing",
			values: map[string]any{"required_nullable": "b"},
			field:  "required_strict",
			reason: ErrMissing,
		},
		{
			name:   "required nullable still must be supplied",
			values: map[string]any{"required_strict": "a"},
			field:  "required_nullable",
			reason: ErrMissing,
		},
		{
			name:   "non-nullable null",
			values: map[string]any{"required_strict": nil, "required_nullable": "b"},
			field:  "required_strict",
			reason: ErrNull,
		},
		{
			name:   "optional non-nullable null",
			values: map[string]any{"required_strict": "a", "required_nullable": "b", "optional_strict": nil},
			field:  "optional_strict",
			reason: ErrNull,
		},
		{
			name:   "check failure",
			values: map[string]any{"required_strict": "a", "required_nullable": "b", "optional": "no-at"},
			field:  "optional",
			reason: validate.ErrInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := testSchema().Validate(tt.values)
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FieldError, got %T (%v)", err, err)
			}
			if fe.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, fe.Field)
			}
			if !errors.Is(err, tt.reason) {
				t.Fatalf("expected %v, got %v", tt.reason, err)
			}
		})
	}
}

func TestValidate_FailsFastInDeclarationOrder(t *testing.T) {
	err := testSchema().Validate(map[string]any{
		"required_strict":   1,
		"required_nullable": 2,
	})
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FieldError, got %v", err)
	}
	if fe.Field != "required_strict" {
		t.Fatalf("expected first declared field, got %q", fe.Field)
	}
	if fe.Error() != "test.required_strict: invalid value: expected string, got int" {
		t.Fatalf("unexpected message: %s", fe.Error())
	}
}

func TestPresent(t *testing.T) {
	values := map[string]any{"a": "x", "b": nil, "c": 0}
	if !Present(values, "a") || !Present(values, "c") {
		t.Fatal("expected a and c to be present")
	}
	if Present(values, "b") || Present(values, "d") {
		t.Fatal("expected b and d to be absent")
	}
}
