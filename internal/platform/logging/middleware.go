package logging

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v5"
)

// RequestLogger returns Echo middleware that stores a logger annotated with
// the request id in the request context. It expects the request id in the Echo
// context under "request_id".
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			reqID, _ := c.Get("request_id").(string)

			ctx := contextWithLogger(c.Request().Context(), Logger())
			ctx = WithRequestID(ctx, reqID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// AccessLogger returns Echo middleware that logs structured request summaries
// after each request completes.
func AccessLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			start := time.Now()

			err := next(c)

			resp, unwrapErr := echo.UnwrapResponse(c.Response())
			status := 0
			size := 0
			if unwrapErr == nil {
				status = resp.Status
				size = int(resp.Size)
			}

			ctx := c.Request().Context()
			LoggerFromContext(ctx).LogAttrs(ctx, slog.LevelInfo, "request completed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", size),
				slog.Duration("duration", time.Since(start)),
			)

			return err
		}
	}
}
