package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/janisto/scoring-api/internal/platform/timeutil"
)

// MaxAgeYears bounds how far in the past a birthday may lie.
const MaxAgeYears = 70

// Field tags evaluated by go-playground/validator.
const (
	emailTag  = "contains=@"
	phoneTag  = "len=11,startswith=7,number"
	dateTag   = "datetime=" + timeutil.DateLayout
	genderTag = "oneof=0 1 2"
)

// ErrInvalid is the single failure condition reported by every field check.
var ErrInvalid = errors.New("invalid value")

// Check validates a present, non-null field value.
type Check func(value any) error

// Validator holds the field checks shared by all request schemas.
// A Validator is stateless apart from its clock and is safe for concurrent use.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the clock used by the birthday check.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// New creates a new Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		v:   validator.New(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

func (v *Validator) tag(value any, tag string) error {
	if err := v.v.Var(value, tag); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return invalid("failed on %s validation", ve[0].Tag())
		}
		return invalid("%v", err)
	}
	return nil
}

// String accepts any string.
func (v *Validator) String(value any) error {
	if _, ok := value.(string); !ok {
		return invalid("expected string, got %T", value)
	}
	return nil
}

// Map accepts a JSON object.
func (v *Validator) Map(value any) error {
	if _, ok := value.(map[string]any); !ok {
		return invalid("expected object, got %T", value)
	}
	return nil
}

// Email accepts a string containing "@".
func (v *Validator) Email(value any) error {
	s, ok := value.(string)
	if !ok {
		return invalid("expected string, got %T", value)
	}
	return v.tag(s, emailTag)
}

// Phone accepts an 11 digit string or integer starting with 7.
func (v *Validator) Phone(value any) error {
	s, ok := PhoneString(value)
	if !ok {
		return invalid("expected string or integer, got %T", value)
	}
	return v.tag(s, phoneTag)
}

// Date accepts a DD.MM.YYYY string.
func (v *Validator) Date(value any) error {
	s, ok := value.(string)
	if !ok {
		return invalid("expected string, got %T", value)
	}
	return v.tag(s, dateTag)
}

// Birthday accepts a DD.MM.YYYY date no earlier than MaxAgeYears before today.
func (v *Validator) Birthday(value any) error {
	if err := v.Date(value); err != nil {
		return err
	}
	now := v.now()
	d, err := timeutil.ParseDate(value.(string), now.Location())
	if err != nil {
		return invalid("%v", err)
	}
	if d.Before(timeutil.YearsBefore(now, MaxAgeYears)) {
		return invalid("older than %d years", MaxAgeYears)
	}
	return nil
}

// Gender accepts the integers 0, 1 and 2.
func (v *Validator) Gender(value any) error {
	n, ok := Int(value)
	if !ok {
		return invalid("expected integer, got %T", value)
	}
	return v.tag(n, genderTag)
}

// ClientIDs accepts a non-empty list of integers.
func (v *Validator) ClientIDs(value any) error {
	items, ok := value.([]any)
	if !ok {
		return invalid("expected list, got %T", value)
	}
	if err := v.tag(items, "min=1"); err != nil {
		return err
	}
	for i, item := range items {
		if _, ok := Int(item); !ok {
			return invalid("item %d: expected integer, got %T", i, item)
		}
	}
	return nil
}

// Int reports the integer held by value. Floating point numbers are never integers,
// even when whole; json.Number must hold an integer literal that fits in int64.
func Int(value any) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// PhoneString returns the string form of a phone given as a string or an integer.
func PhoneString(value any) (string, bool) {
	if s, ok := value.(string); ok {
		return s, true
	}
	if n, ok := Int(value); ok {
		return strconv.FormatInt(n, 10), true
	}
	return "", false
}
