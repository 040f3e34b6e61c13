package middleware

import (
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
)

const (
	// HeaderXRequestID carries the request identifier in both directions.
	HeaderXRequestID = "X-Request-ID"

	// ContextKeyRequestID is the echo context key holding the identifier.
	ContextKeyRequestID = "request_id"

	maxRequestIDLength = 128
)

// isValidRequestID accepts printable ASCII only, so a client supplied id
// cannot inject newlines or control bytes into log lines.
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxRequestIDLength {
		return false
	}
	for i := range len(id) {
		if c := id[i]; c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}

// newRequestID returns a random UUIDv4 in its 32 character hex form.
func newRequestID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// RequestID tags every request with an identifier. A valid incoming
// X-Request-ID is reused, otherwise a fresh one is generated. The value is
// echoed in the response header and stored under ContextKeyRequestID.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			reqID := c.Request().Header.Get(HeaderXRequestID)
			if !isValidRequestID(reqID) {
				reqID = newRequestID()
			}

			c.Set(ContextKeyRequestID, reqID)
			c.Response().Header().Set(HeaderXRequestID, reqID)

			return next(c)
		}
	}
}
