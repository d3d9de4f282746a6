package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetricsMiddleware records gateway requests by method, route and status_code.
// Routes are gin patterns (e.g., /users/:id), unmatched requests are labelled "unknown".
// If the instruments cannot be created the middleware only calls the next handler.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	requests, err := newInstruments(
		meterProvider.Meter(namespace),
		fmt.Sprintf("%s_http_requests_total", namespace),
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		"HTTP requests",
		"{request}",
	)
	if err != nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		requests.record(c.Request.Context(), time.Since(start),
			attribute.String("method", c.Request.Method),
			attribute.String("path", routePattern(c)),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
	}
}

// routePattern returns the matched gin route, or "unknown" when nothing matched.
func routePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}
