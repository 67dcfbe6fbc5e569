package handlers

import (
	"net/http"

	"crmneon/internal/middleware"

	"github.com/labstack/echo/v4"
)

// Routes is the full HTTP surface of the service
type Routes struct {
	CRM     *CRMHandlers
	Admin   *AdminHandlers
	Auth    *AuthHandlers
	Health  *HealthHandlers
	Metrics http.Handler

	// Authenticate verifies bearer tokens on /crm
	Authenticate echo.MiddlewareFunc
	// AdminGuards run on /admin after preflight handling
	AdminGuards []echo.MiddlewareFunc
}

// Register mounts every route on e
func (r Routes) Register(e *echo.Echo) {
	if r.Health != nil {
		e.GET("/health", r.Health.LivenessCheck)
		e.GET("/health/ready", r.Health.ReadinessCheck)
	}
	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics))
	}

	e.GET("/.well-known/jwks.json", r.Auth.JWKS)
	e.GET("/.well-known/openid-configuration", r.Auth.OpenIDConfiguration)

	crm := e.Group("/crm", middleware.CORS(), middleware.Preflight(), r.Authenticate, middleware.TenantClaims())
	crm.Any("/:entity", r.CRM.Handle)
	crm.Any("/:entity/:id", r.CRM.Handle)

	adminMiddleware := append([]echo.MiddlewareFunc{middleware.Preflight()}, r.AdminGuards...)
	admin := e.Group("/admin", adminMiddleware...)
	admin.POST("/token", r.Auth.IssueToken)
	admin.Any("/:entity", r.Admin.Handle)
	admin.Any("/:entity/:id", r.Admin.Handle)
}
