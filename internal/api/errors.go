package api

import "errors"

// Request failure classes. Parsing errors wrap one of these together with the
// underlying *schema.FieldError when a field was at fault.
var (
	// ErrBadRequest is returned when the body is not a JSON object.
	ErrBadRequest = errors.New("bad request")

	// ErrMalformed covers envelope fields that are missing or of the wrong type
	// and method arguments that are not an object.
	ErrMalformed = errors.New("malformed request")

	// ErrInvalidPayload covers method arguments that fail their field checks.
	ErrInvalidPayload = errors.New("invalid arguments")

	// ErrInsufficientFields is returned when online_score arguments carry none of
	// the required field pairs.
	ErrInsufficientFields = errors.New("insufficient fields")

	// ErrUnknownMethod is returned for method names outside the supported set.
	ErrUnknownMethod = errors.New("unknown method")

	// ErrForbidden is returned when the token does not match the caller's signature.
	ErrForbidden = errors.New("forbidden")
)
