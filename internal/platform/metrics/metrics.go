package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/janisto/scoring-api/internal/platform/respond"
)

// Cache lookup results recorded by ObserveCache.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	methodCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scoring",
			Subsystem: "api",
			Name:      "method_calls_total",
			Help:      "Total number of method calls by method and response code.",
		},
		[]string{"method", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scoring",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "status"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scoring",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Score cache lookups by result.",
		},
		[]string{"result"},
	)

	cacheWriteErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "scoring",
			Subsystem: "cache",
			Name:      "write_errors_total",
			Help:      "Score cache writes that failed.",
		},
	)
)

func init() {
	Registry.MustRegister(methodCalls, httpDuration, cacheLookups, cacheWriteErrors)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() echo.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return func(c *echo.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}

// Middleware records request durations by HTTP method and status.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			start := time.Now()
			err := next(c)

			status := http.StatusOK
			if resp, unwrapErr := echo.UnwrapResponse(c.Response()); unwrapErr == nil && resp.Status != 0 {
				status = resp.Status
			}
			if err != nil {
				// The error handler writes the response after the chain returns.
				status = respond.Status(err)
			}
			httpDuration.WithLabelValues(c.Request().Method, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// ObserveMethod counts a method call with its response code.
func ObserveMethod(method string, code int) {
	methodCalls.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// ObserveCache counts a score cache lookup.
func ObserveCache(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}

// ObserveCacheWriteError counts a failed score cache write.
func ObserveCacheWriteError() {
	cacheWriteErrors.Inc()
}
