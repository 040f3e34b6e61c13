package respond

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/labstack/echo/v5"

	applog "github.com/janisto/scoring-api/internal/platform/logging"
)

// MIMEApplicationCBOR is the media type of CBOR encoded envelopes.
const MIMEApplicationCBOR = "application/cbor"

// preferCBOR reports whether the Accept header ranks application/cbor above
// application/json. Wildcards and a missing header select JSON.
func preferCBOR(header string) bool {
	if header == "" {
		return false
	}
	cborQ, jsonQ := -1.0, -1.0
	for part := range strings.SplitSeq(header, ",") {
		mediaType, params, _ := strings.Cut(part, ";")
		q := 1.0
		for param := range strings.SplitSeq(params, ";") {
			param = strings.TrimSpace(param)
			if v, ok := strings.CutPrefix(strings.ToLower(param), "q="); ok {
				if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
					q = parsed
				}
			}
		}
		switch strings.ToLower(strings.TrimSpace(mediaType)) {
		case MIMEApplicationCBOR:
			cborQ = max(cborQ, q)
		case echo.MIMEApplicationJSON, "application/*", "*/*":
			jsonQ = max(jsonQ, q)
		}
	}
	return cborQ > 0 && cborQ > jsonQ
}

// Negotiate writes data as JSON, or as CBOR when the client prefers it.
func Negotiate(c *echo.Context, status int, data any) error {
	c.Response().Header().Add("Vary", "Accept")
	if preferCBOR(c.Request().Header.Get("Accept")) {
		b, err := cbor.Marshal(data)
		if err != nil {
			return err
		}
		return c.Blob(status, MIMEApplicationCBOR, b)
	}
	return c.JSON(status, data)
}

// OK writes the success envelope around result.
func OK(c *echo.Context, result any) error {
	return Negotiate(c, http.StatusOK, Success{Response: result, Code: http.StatusOK})
}

// Recoverer turns a panic in a handler into the 500 envelope.
// Re-panics on http.ErrAbortHandler to preserve net/http abort semantics.
func Recoverer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				applog.LoggerFromContext(c.Request().Context()).ErrorContext(c.Request().Context(), "panic recovered",
					slog.Any("error", rec),
					slog.String("stack", string(debug.Stack())),
				)

				if resp, err := echo.UnwrapResponse(c.Response()); err == nil && resp.Committed {
					return
				}
				_ = Negotiate(c, http.StatusInternalServerError, NewFailure(http.StatusInternalServerError))
			}()
			return next(c)
		}
	}
}

// NewHTTPErrorHandler returns an Echo HTTPErrorHandler that writes the
// failure envelope for err. Server side failures are logged.
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(c *echo.Context, err error) {
		if resp, unwrapErr := echo.UnwrapResponse(c.Response()); unwrapErr == nil && resp.Committed {
			return
		}

		status := Status(err)
		ctx := c.Request().Context()
		if status >= http.StatusInternalServerError {
			applog.LogError(ctx, "request failed", err)
		} else {
			applog.LogInfo(ctx, "request rejected",
				slog.Int("code", status),
				slog.String("reason", err.Error()))
		}

		if writeErr := Negotiate(c, status, NewFailure(status)); writeErr != nil {
			applog.LogError(ctx, "write failure response", writeErr)
		}
	}
}
