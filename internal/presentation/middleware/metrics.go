package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"gallery/internal/infrastructure/metrics"
)

// Metrics records request counts and latency per route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			metrics.RecordRequest(c.Request().Method, route, status, time.Since(start))

			return err
		}
	}
}
