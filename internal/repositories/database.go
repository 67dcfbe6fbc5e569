package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"crmneon/internal/entities"

	"github.com/jackc/pgx/v5"
)

// Database is satisfied by *pgxpool.Pool and pgxmock pools
type Database interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

var (
	ErrEntityNotFound = entities.ErrEntityNotFound
	ErrInvalidTenant  = errors.New("tenant id must be a positive integer")
	ErrNotRootEntity  = errors.New("entity is scoped to a tenant")
)

// RecordNotFoundError is returned when no row matches id within the tenant
type RecordNotFoundError struct {
	Entity string
	ID     int64
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

const setTenantSQL = "SELECT set_config('app.current_tenant_id', $1, true)"

// SetTenantContext scopes row level security to tenantID for the rest of tx
func SetTenantContext(ctx context.Context, tx pgx.Tx, tenantID int64) error {
	if tenantID <= 0 {
		return ErrInvalidTenant
	}
	if _, err := tx.Exec(ctx, setTenantSQL, strconv.FormatInt(tenantID, 10)); err != nil {
		return fmt.Errorf("failed to set tenant context: %w", err)
	}
	return nil
}

// inTenantTx runs fn in a transaction whose first statement sets the tenant
func inTenantTx(ctx context.Context, db Database, tenantID int64, fn func(pgx.Tx) error) error {
	if tenantID <= 0 {
		return ErrInvalidTenant
	}
	return inTx(ctx, db, func(tx pgx.Tx) error {
		if err := SetTenantContext(ctx, tx, tenantID); err != nil {
			return err
		}
		return fn(tx)
	})
}

func inTx(ctx context.Context, db Database, fn func(pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
