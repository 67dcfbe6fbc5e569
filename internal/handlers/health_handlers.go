package handlers

import (
	"context"
	"net/http"
	"time"

	"crmneon/internal/caching"
	"crmneon/internal/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	appDB       Pinger
	migrationDB Pinger
	redisSvc    caching.CacheService
	started     time.Time
}

// NewHealthHandlers creates a new health handlers instance. redisSvc may be
// nil when redis is not configured.
func NewHealthHandlers(appDB, migrationDB Pinger, redisSvc caching.CacheService) *HealthHandlers {
	return &HealthHandlers{
		appDB:       appDB,
		migrationDB: migrationDB,
		redisSvc:    redisSvc,
		started:     time.Now(),
	}
}

// HealthStatus represents the readiness of every dependency
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
}

// LivenessCheck determines if the application is running (basic liveness probe)
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	health := &HealthStatus{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	}

	checks := map[string]func(context.Context) error{
		"app_database":       h.appDB.Ping,
		"migration_database": h.migrationDB.Ping,
	}
	if h.redisSvc != nil {
		checks["redis"] = h.redisSvc.Ping
	}

	for name, check := range checks {
		if err := check(ctx); err != nil {
			logger.FromEcho(c).Warn("readiness check failed", zap.String("service", name), zap.Error(err))
			health.Services[name] = "unhealthy"
			health.Status = "not_ready"
			continue
		}
		health.Services[name] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status != "ready" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}
