package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/multidisease/platform-api/internal/api/metrics"
	"github.com/multidisease/platform-api/internal/core/domain"
)

// Limiter is the counter store behind RateLimit (Redis in production).
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Time, error)
	Limit() int64
}

// RateLimit rejects clients that exceed the limiter's budget, keyed by client
// IP. When the store is unreachable requests are let through.
func RateLimit(limiter Limiter, scope string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			ok, reset, err := limiter.Allow(c.Request().Context(), ip)
			if err != nil {
				log.Warn().Err(err).Str("ip", ip).Str("scope", scope).Msg("rate limit check failed, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("RateLimit-Limit", strconv.FormatInt(limiter.Limit(), 10))
			h.Set("RateLimit-Reset", strconv.FormatInt(int64(time.Until(reset).Seconds()), 10))

			if !ok {
				metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}
