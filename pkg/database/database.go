package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NewPool opens a pgx pool and verifies it with a ping. maxConns <= 0 keeps
// the value from the connection string.
func NewPool(ctx context.Context, name, dsn string, maxConns int32, log *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := ParseConfig(dsn, maxConns)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s connection string: %w", name, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s pool: %w", name, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect %s database: %w", name, err)
	}

	log.Info("database connected",
		zap.String("pool", name),
		zap.String("user", cfg.ConnConfig.User),
		zap.Int32("max_conns", cfg.MaxConns),
	)
	return pool, nil
}

// ParseConfig parses dsn and applies the connection limit
func ParseConfig(dsn string, maxConns int32) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	return cfg, nil
}
