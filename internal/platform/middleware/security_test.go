package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v5"
)

func newSecurityEcho(skip ...string) *echo.Echo {
	e := echo.New()
	e.Use(Security(skip...))
	ok := func(c *echo.Context) error { return c.JSON(http.StatusOK, nil) }
	e.POST("/method", ok)
	e.GET("/metrics", ok)
	return e
}

func TestSecurity_SetsHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	newSecurityEcho().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/method", nil))

	expected := map[string]string{
		"Cache-Control":                "no-store",
		"Content-Security-Policy":      "default-src 'none'; frame-ancestors 'none'",
		"Cross-Origin-Resource-Policy": "same-origin",
		"Referrer-Policy":              "no-referrer",
		"X-Content-Type-Options":       "nosniff",
		"X-Frame-Options":              "DENY",
	}
	for header, want := range expected {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("header %q: expected %q, got %q", header, want, got)
		}
	}
}

func TestSecurity_SkipPaths(t *testing.T) {
	e := newSecurityEcho("/metrics")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "" {
		t.Fatalf("expected no Cache-Control for skipped path, got %q", cc)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/method", nil))
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Fatalf("expected 'no-store' for non-skipped path, got %q", cc)
	}
}
