package middleware

import (
	"errors"
	"strconv"

	"crmneon/internal/common"
	"crmneon/internal/logger"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// userContextKey is where echo-jwt stores the parsed token
const userContextKey = "user"

// JWTConfig configures bearer token verification on the tenant router
type JWTConfig struct {
	Keyfunc  jwt.Keyfunc
	Issuer   string
	Audience string
}

// RemoteKeyfunc fetches and refreshes a JWKS document from url
func RemoteKeyfunc(url string) (jwt.Keyfunc, func(), error) {
	jwks, err := keyfunc.Get(url, keyfunc.Options{
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, nil, err
	}
	return jwks.Keyfunc, jwks.EndBackground, nil
}

// JWTMiddleware handles JWT token validation. Only RS256 tokens with the
// configured issuer, audience and an expiry are accepted.
func JWTMiddleware(cfg JWTConfig) echo.MiddlewareFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
	)

	return echojwt.WithConfig(echojwt.Config{
		ContextKey: userContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			token, err := parser.Parse(auth, cfg.Keyfunc)
			if err != nil {
				return nil, err
			}
			if !token.Valid {
				return nil, errors.New("token not valid")
			}
			return token, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logger.FromEcho(c).Debug("rejected bearer token", zap.Error(err))
			return common.Unauthorized("")
		},
	})
}

// TenantClaims reads the tenantId claim of the verified token into the
// request context. A missing or non-positive tenant is a 401.
func TenantClaims() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(userContextKey).(*jwt.Token)
			if !ok {
				return common.Unauthorized("")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return common.Unauthorized("")
			}

			tenantID, ok := common.ClaimToID(claims["tenantId"])
			if !ok {
				return common.Unauthorized("")
			}

			ctx := common.WithTenantID(c.Request().Context(), tenantID)
			if userID, ok := common.ClaimToID(claims["userId"]); ok {
				ctx = common.WithUserID(ctx, userID)
			} else if sub, err := claims.GetSubject(); err == nil {
				if userID, err := strconv.ParseInt(sub, 10, 64); err == nil && userID > 0 {
					ctx = common.WithUserID(ctx, userID)
				}
			}
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
