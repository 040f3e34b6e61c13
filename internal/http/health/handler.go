package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	applog "github.com/janisto/scoring-api/internal/platform/logging"
	"github.com/janisto/scoring-api/internal/platform/respond"
)

// pingTimeout bounds the store check so health checks answer promptly.
const pingTimeout = 2 * time.Second

// Pinger is the dependency checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response is the payload for the health endpoint.
type Response struct {
	Status string `json:"status" cbor:"status" example:"healthy"`
}

// Handler reports healthy while the store answers PING, and 503 otherwise.
//
//	@Summary		Health check
//	@Description	Reports whether the store answers PING
//	@Tags			health
//	@Produce		json,application/cbor
//	@Success		200	{object}	Response
//	@Failure		503	{object}	Response
//	@Router			/health [get]
func Handler(p Pinger) echo.HandlerFunc {
	return func(c *echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			applog.LogWarn(ctx, "health check failed", slog.String("error", err.Error()))
			return respond.Negotiate(c, http.StatusServiceUnavailable, Response{Status: "unavailable"})
		}
		return respond.Negotiate(c, http.StatusOK, Response{Status: "healthy"})
	}
}
