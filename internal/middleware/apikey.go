package middleware

import (
	"crypto/subtle"

	"crmneon/internal/common"

	"github.com/labstack/echo/v4"
)

const apiKeyHeader = "x-api-key"

// APIKeyAuth guards the admin router. The x-api-key header must equal the
// key loaded at start-up.
func APIKeyAuth(apiKey string) echo.MiddlewareFunc {
	expected := []byte(apiKey)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			provided := c.Request().Header.Get(apiKeyHeader)
			if provided == "" || len(expected) == 0 {
				return common.Unauthorized("")
			}
			if subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
				return common.Unauthorized("")
			}
			return next(c)
		}
	}
}
