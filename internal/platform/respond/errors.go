package respond

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/janisto/scoring-api/internal/api"
)

// StatusInvalidRequest shares 422 with Unprocessable Entity but carries its own message.
const StatusInvalidRequest = http.StatusUnprocessableEntity

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	StatusInvalidRequest:           "Invalid Request",
	http.StatusInternalServerError: "Internal Server Error",
}

// Message returns the error message sent for status.
func Message(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "Unknown Error"
}

// Success is the envelope for a completed method call.
type Success struct {
	Response any `json:"response" cbor:"response"`
	Code     int `json:"code"     cbor:"code"     example:"200"`
}

// Failure is the envelope for a rejected or failed call.
type Failure struct {
	Error string `json:"error" cbor:"error" example:"Invalid Request"`
	Code  int    `json:"code"  cbor:"code"  example:"422"`
}

// NewFailure builds the failure envelope for status.
func NewFailure(status int) Failure {
	return Failure{Error: Message(status), Code: status}
}

// Status classifies err into the HTTP status sent to the client.
func Status(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, api.ErrBadRequest):
		return http.StatusBadRequest
	case api.IsInvalid(err):
		return StatusInvalidRequest
	case errors.Is(err, api.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, api.ErrUnknownMethod), errors.Is(err, echo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, echo.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.As(err, &he):
		return he.Code
	default:
		return http.StatusInternalServerError
	}
}
