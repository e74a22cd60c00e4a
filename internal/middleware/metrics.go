package middleware

//go:generate go tool mockery

import (
	"cmp"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"shortlink/internal/metrics"
)

type HTTPRecorder interface {
	RecordHTTP(m metrics.HTTPMetric)
}

type MetricsConfig struct {
	Skipper  middleware.Skipper
	Recorder HTTPRecorder
}

func MetricsWithConfig(cfg MetricsConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = middleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			statusCode := c.Response().Status
			var errStr string
			if err != nil {
				errStr = err.Error()
				var he *echo.HTTPError
				switch {
				case errors.As(err, &he):
					statusCode = he.Code
				case !c.Response().Committed:
					statusCode = http.StatusInternalServerError
				}
			}

			cfg.Recorder.RecordHTTP(metrics.HTTPMetric{
				Time:       start.UTC(),
				Method:     c.Request().Method,
				Path:       cmp.Or(c.Path(), "/"),
				StatusCode: statusCode,
				DurationMs: float64(duration.Microseconds()) / 1000.0,
				ClientIP:   c.RealIP(),
				RequestID:  c.Response().Header().Get(echo.HeaderXRequestID),
				Error:      errStr,
			})

			return err
		}
	}
}

// SkipPathPrefixes skips requests whose URL path starts with any prefix.
func SkipPathPrefixes(prefixes ...string) middleware.Skipper {
	return func(c echo.Context) bool {
		path := c.Request().URL.Path
		for _, p := range prefixes {
			if strings.HasPrefix(path, p) {
				return true
			}
		}
		return false
	}
}
