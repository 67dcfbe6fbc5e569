package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crmneon/internal/caching"
	"crmneon/internal/common"
	"crmneon/internal/config"
	"crmneon/internal/handlers"
	"crmneon/internal/jobs/background"
	"crmneon/internal/logger"
	"crmneon/internal/middleware"
	"crmneon/internal/repositories"
	"crmneon/internal/secrets"
	"crmneon/internal/services"
	"crmneon/pkg/database"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env, cfg.App.LogLevel, cfg.App.Name)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Secrets
	store, err := newSecretStore(startCtx, cfg)
	if err != nil {
		return err
	}
	keys, err := services.LoadKeySet(startCtx, store, cfg.PrivateKeyParameter(), cfg.PublicKeyParameter())
	if err != nil {
		return fmt.Errorf("failed to load JWT keys: %w", err)
	}
	apiKey, err := store.Get(startCtx, cfg.APIKeyParameter())
	if err != nil {
		return fmt.Errorf("failed to load API key: %w", err)
	}

	// Database pools, one per role
	zlog.Info("database roles",
		zap.String("app_role", cfg.Database.AppRoleName),
		zap.String("migration_role", cfg.Database.MigrationRoleName),
	)
	appPool, err := database.NewPool(startCtx, "app", cfg.Database.AppConnectionString, cfg.Database.MaxConns, zlog)
	if err != nil {
		return err
	}
	defer appPool.Close()
	migrationPool, err := database.NewPool(startCtx, "migration", cfg.Database.MigrationConnectionString, cfg.Database.MaxConns, zlog)
	if err != nil {
		return err
	}
	defer migrationPool.Close()

	appRepo := repositories.NewRecordRepo(appPool)
	adminRepo := repositories.NewRecordRepo(migrationPool)
	authSvc := services.NewAuthService(appRepo, keys, cfg.JWT.Issuer, cfg.JWT.Audience)

	keyfunc, stopKeyfunc, err := newKeyfunc(cfg, keys)
	if err != nil {
		return err
	}
	defer stopKeyfunc()

	// Admin guards: API key first, then the optional rate limit
	adminGuards := []echo.MiddlewareFunc{middleware.APIKeyAuth(apiKey)}
	var cacheSvc caching.CacheService
	if cfg.Redis.Addr != "" {
		cacheSvc = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, zlog)
		defer cacheSvc.Close()
		adminGuards = append(adminGuards, middleware.RateLimit(cacheSvc, "admin", cfg.Admin.RateLimit, cfg.Admin.RateWindow))
	} else {
		zlog.Info("redis not configured, admin rate limiting disabled")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewHTTPMetrics(cfg.App.Name, registry)

	// Background jobs
	var scheduler *background.JobScheduler
	if cfg.Jobs.Enabled {
		scheduler, err = background.NewJobScheduler(cfg.Jobs, migrationPool, map[string]background.StatsSource{
			"app":       appPool,
			"migration": migrationPool,
		}, registry, zlog)
		if err != nil {
			return err
		}
		scheduler.Start()
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = common.NewHTTPErrorHandler(zlog)

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware(zlog))
	e.Use(httpMetrics.Middleware())
	e.Use(echoMiddleware.Recover())

	handlers.Routes{
		CRM:     handlers.NewCRMHandlers(appRepo),
		Admin:   handlers.NewAdminHandlers(adminRepo),
		Auth:    handlers.NewAuthHandlers(authSvc),
		Health:  handlers.NewHealthHandlers(appPool, migrationPool, cacheSvc),
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Authenticate: middleware.JWTMiddleware(middleware.JWTConfig{
			Keyfunc:  keyfunc,
			Issuer:   cfg.JWT.Issuer,
			Audience: cfg.JWT.Audience,
		}),
		AdminGuards: adminGuards,
	}.Register(e)

	// Start server
	serverErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		zlog.Info("server starting", zap.String("addr", addr), zap.String("stage", cfg.App.Stage))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		zlog.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			zlog.Warn("failed to stop scheduler", zap.Error(err))
		}
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return e.Shutdown(ctx)
}

func newSecretStore(ctx context.Context, cfg *config.Config) (secrets.Store, error) {
	if cfg.Secrets.Backend == "env" {
		return secrets.NewEnvStore(), nil
	}
	return secrets.NewSSMStore(ctx, cfg.Secrets.AWSRegion)
}

// newKeyfunc verifies against the local key set unless JWKS_URL points at a
// published key set
func newKeyfunc(cfg *config.Config, keys *services.KeySet) (jwt.Keyfunc, func(), error) {
	if cfg.JWT.JWKSURL != "" {
		kf, stop, err := middleware.RemoteKeyfunc(cfg.JWT.JWKSURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch JWKS from %s: %w", cfg.JWT.JWKSURL, err)
		}
		return kf, stop, nil
	}

	kf, err := keys.Keyfunc()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build keyfunc: %w", err)
	}
	return kf, func() {}, nil
}
