package routes

import (
	"github.com/labstack/echo/v5"

	"github.com/janisto/scoring-api/internal/api"
	"github.com/janisto/scoring-api/internal/http/docs"
	"github.com/janisto/scoring-api/internal/http/health"
	"github.com/janisto/scoring-api/internal/http/method"
	"github.com/janisto/scoring-api/internal/platform/metrics"
)

// Deps are the collaborators shared by the routes.
type Deps struct {
	Parser     *api.Parser
	Authorizer method.Authorizer
	Service    method.Service
	Store      health.Pinger

	// DocsPath is the generated OpenAPI document served under /api-docs.
	DocsPath string
}

// Register wires the docs, health, metrics and method routes into e.
func Register(e *echo.Echo, d Deps) {
	docs.Register(e, d.DocsPath)
	e.GET("/health", health.Handler(d.Store))
	e.GET("/metrics", metrics.Handler())
	method.Register(e.Group(""), d.Parser, d.Authorizer, d.Service)
}
