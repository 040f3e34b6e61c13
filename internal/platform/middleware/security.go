package middleware

import (
	"strings"

	"github.com/labstack/echo/v5"
)

// apiHeaders are set on every JSON API response. Nothing the service returns
// is meant to be cached, framed or sniffed by a browser.
var apiHeaders = [][2]string{
	{"Cache-Control", "no-store"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Cross-Origin-Resource-Policy", "same-origin"},
	{"Referrer-Policy", "no-referrer"},
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
}

// Security sets the response headers above. Requests whose path starts with
// one of skipPaths (the metrics scrape endpoint, for example) are left alone.
func Security(skipPaths ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			path := c.Request().URL.Path
			for _, p := range skipPaths {
				if strings.HasPrefix(path, p) {
					return next(c)
				}
			}

			h := c.Response().Header()
			for _, kv := range apiHeaders {
				h.Set(kv[0], kv[1])
			}
			return next(c)
		}
	}
}
