package middleware

import (
	"context"
	"time"

	"crmneon/internal/common"
	"crmneon/internal/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RateLimiter is satisfied by caching.CacheService
type RateLimiter interface {
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit allows limit requests per client IP and window. Requests are let
// through when the limiter itself fails.
func RateLimit(limiter RateLimiter, scope string, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := scope + ":" + c.RealIP()
			limited, err := limiter.IsRateLimited(c.Request().Context(), key, limit, window)
			if err != nil {
				logger.FromEcho(c).Warn("rate limiter unavailable", zap.Error(err))
				return next(c)
			}
			if limited {
				return common.TooManyRequests()
			}
			return next(c)
		}
	}
}
