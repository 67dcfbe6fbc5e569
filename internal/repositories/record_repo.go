package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crmneon/internal/entities"
	"crmneon/internal/models"

	"github.com/jackc/pgx/v5"
)

type RecordRepository interface {
	List(ctx context.Context, entity string, tenantID int64) ([]models.Record, error)
	GetByID(ctx context.Context, entity string, id, tenantID int64) (models.Record, error)
	Create(ctx context.Context, entity string, payload []byte, tenantID int64) (models.Record, error)
	Update(ctx context.Context, entity string, id int64, payload []byte, tenantID int64) (models.Record, error)
	Delete(ctx context.Context, entity string, id, tenantID int64) (int64, error)
	// CreateRoot inserts a record that is its own tenant scope (tenants)
	CreateRoot(ctx context.Context, entity string, payload []byte) (models.Record, error)
}

type recordRepo struct {
	db Database
}

func NewRecordRepo(db Database) RecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) List(ctx context.Context, entity string, tenantID int64) ([]models.Record, error) {
	d, err := entities.Lookup(entity)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 ORDER BY id",
		strings.Join(d.Columns, ", "), d.Table, d.TenantColumn)

	var records []models.Record
	err = inTenantTx(ctx, r.db, tenantID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, tenantID)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", d.PluralName, err)
		}
		records, err = d.Collect(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepo) GetByID(ctx context.Context, entity string, id, tenantID int64) (models.Record, error) {
	d, err := entities.Lookup(entity)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 AND %s = $2 LIMIT 1",
		strings.Join(d.Columns, ", "), d.Table, d.TenantColumn)

	var record models.Record
	err = inTenantTx(ctx, r.db, tenantID, func(tx pgx.Tx) error {
		record, err = queryOne(ctx, tx, d, id, query, id, tenantID)
		return err
	})
	return record, err
}

func (r *recordRepo) Create(ctx context.Context, entity string, payload []byte, tenantID int64) (models.Record, error) {
	d, err := entities.Lookup(entity)
	if err != nil {
		return nil, err
	}
	if tenantID <= 0 {
		return nil, ErrInvalidTenant
	}

	in, err := d.DecodeInput(payload, tenantID)
	if err != nil {
		return nil, err
	}
	query, args := insertSQL(d, in.Assignments())

	var record models.Record
	err = inTenantTx(ctx, r.db, tenantID, func(tx pgx.Tx) error {
		record, err = queryOne(ctx, tx, d, 0, query, args...)
		return err
	})
	return record, err
}

func (r *recordRepo) CreateRoot(ctx context.Context, entity string, payload []byte) (models.Record, error) {
	d, err := entities.Lookup(entity)
	if err != nil {
		return nil, err
	}
	if d.TenantColumn != "id" {
		return nil, ErrNotRootEntity
	}

	in, err := d.DecodeInput(payload, 0)
	if err != nil {
		return nil, err
	}
	query, args := insertSQL(d, in.Assignments())

	var record models.Record
	err = inTx(ctx, r.db, func(tx pgx.Tx) error {
		record, err = queryOne(ctx, tx, d, 0, query, args...)
		return err
	})
	return record, err
}

func (r *recordRepo) Update(ctx context.Context, entity string, id int64, payload []byte, tenantID int64) (models.Record, error) {
	d, err := entities.Lookup(entity)
	if err != nil {
		return nil, err
	}
	if tenantID <= 0 {
		return nil, ErrInvalidTenant
	}

	patch, err := d.DecodePatch(payload)
	if err != nil {
		return nil, err
	}
	assignments := patch.Assignments()
	if len(assignments) == 0 && !d.HasUpdatedAt {
		return nil, models.NewValidationError("body", "no fields to update")
	}

	sets := make([]string, 0, len(assignments)+1)
	args := make([]any, 0, len(assignments)+2)
	for i, a := range assignments {
		sets = append(sets, fmt.Sprintf("%s = $%d", a.Column, i+1))
		args = append(args, a.Value)
	}
	if d.HasUpdatedAt {
		sets = append(sets, "updated_at = NOW()")
	}
	n := len(args)
	args = append(args, id, tenantID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d AND %s = $%d RETURNING %s",
		d.Table, strings.Join(sets, ", "), n+1, d.TenantColumn, n+2, strings.Join(d.Columns, ", "))

	var record models.Record
	err = inTenantTx(ctx, r.db, tenantID, func(tx pgx.Tx) error {
		record, err = queryOne(ctx, tx, d, id, query, args...)
		return err
	})
	return record, err
}

func (r *recordRepo) Delete(ctx context.Context, entity string, id, tenantID int64) (int64, error) {
	d, err := entities.Lookup(entity)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND %s = $2 RETURNING id", d.Table, d.TenantColumn)

	var deleted int64
	err = inTenantTx(ctx, r.db, tenantID, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query, id, tenantID).Scan(&deleted)
		if errors.Is(err, pgx.ErrNoRows) {
			return &RecordNotFoundError{Entity: d.DisplayName, ID: id}
		}
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", d.DisplayName, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func insertSQL(d entities.Descriptor, assignments []models.Assignment) (string, []any) {
	cols := make([]string, 0, len(assignments))
	placeholders := make([]string, 0, len(assignments))
	args := make([]any, 0, len(assignments))
	for i, a := range assignments {
		cols = append(cols, a.Column)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, a.Value)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		d.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), strings.Join(d.Columns, ", "))
	return query, args
}

// queryOne expects at most one row back. Zero rows is a RecordNotFoundError for id.
func queryOne(ctx context.Context, tx pgx.Tx, d entities.Descriptor, id int64, query string, args ...any) (models.Record, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", d.DisplayName, err)
	}
	records, err := d.Collect(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		if id == 0 {
			return nil, fmt.Errorf("no %s returned", d.DisplayName)
		}
		return nil, &RecordNotFoundError{Entity: d.DisplayName, ID: id}
	}
	return records[0], nil
}
