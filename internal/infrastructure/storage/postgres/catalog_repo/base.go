// Package catalog_repo provides PostgreSQL implementations for catalog
// repositories.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"tillbox/internal/core/apperror"
	"tillbox/internal/domain"
	"tillbox/internal/domain/listing"
	"tillbox/internal/infrastructure/storage/postgres"
)

// BaseCatalogRepo provides common CRUD operations for catalog entities.
// Embed this in specific catalog repositories.
//
// tableCols are the real table columns; joined display fields on the entity
// (loaded by list projections) must not appear here or they would leak into
// INSERT and UPDATE statements.
type BaseCatalogRepo[T domain.Entity] struct {
	txManager *postgres.TxManager
	tableName string
	alias     string
	schema    *listing.Schema
	tableCols []string
	newFn     func() T
}

// NewBaseCatalogRepo creates a new base catalog repository.
func NewBaseCatalogRepo[T domain.Entity](
	txManager *postgres.TxManager,
	tableName string,
	alias string,
	schema *listing.Schema,
	tableCols []string,
	newFn func() T,
) *BaseCatalogRepo[T] {
	return &BaseCatalogRepo[T]{
		txManager: txManager,
		tableName: tableName,
		alias:     alias,
		schema:    schema,
		tableCols: tableCols,
		newFn:     newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return postgres.Builder()
}

// Querier returns the transaction from context when one is open, otherwise
// the pool.
func (r *BaseCatalogRepo[T]) Querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts a new entity using its "db" tags and writes the generated
// id back.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, entity T) error {
	data := r.tableData(entity, "id")
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	q := r.Builder().
		Insert(r.tableName).
		SetMap(data).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	var newID int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&newID); err != nil {
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	entity.SetID(newID)

	return nil
}

// Update modifies an existing entity. The id and created_at columns never
// change.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, entity T) error {
	data := r.tableData(entity, "id", "created_at")
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	q := r.Builder().
		Update(r.tableName).
		SetMap(data).
		Where(squirrel.Eq{"id": entity.GetID()})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, entity.GetID())
	}

	return nil
}

// baseSelect creates a SELECT builder over the aliased table, so conditions
// can use the same qualified columns as the list schema.
func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.tableCols...).
		From(r.tableName + " " + r.alias)
}

// GetByID retrieves entity by ID.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, id int64) (T, error) {
	entity := r.newFn()

	q := r.baseSelect().
		Where(squirrel.Eq{"id": id}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.Querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.tableName, id)
		}
		return entity, fmt.Errorf("get by id: %w", err)
	}

	return entity, nil
}

// List retrieves one page of entities for a validated query.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, q listing.Query) (listing.Result[T], error) {
	return postgres.ListPage[T](ctx, r.Querier(ctx), r.baseSelect(), r.schema, q)
}

// Exists checks whether an entity exists and is not marked deleted.
func (r *BaseCatalogRepo[T]) Exists(ctx context.Context, id int64) (bool, error) {
	q := r.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}

	return true, nil
}

// SetDeletionMark sets or clears the deletion mark (soft delete).
func (r *BaseCatalogRepo[T]) SetDeletionMark(ctx context.Context, id int64, marked bool) error {
	q := r.Builder().
		Update(r.tableName).
		Set("deletion_mark", marked).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set deletion mark: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("execute set deletion mark: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, id)
	}

	return nil
}

// FindOne executes a SELECT query and returns a single entity.
func (r *BaseCatalogRepo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder) (T, error) {
	entity := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.Querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.tableName, "matching query")
		}
		return entity, fmt.Errorf("find one: %w", err)
	}

	return entity, nil
}

// tableData maps an entity to its column values, restricted to the table's
// real columns minus omit.
func (r *BaseCatalogRepo[T]) tableData(entity T, omit ...string) map[string]any {
	data := postgres.StructToMap(entity, omit...)

	filtered := make(map[string]any, len(r.tableCols))
	for _, col := range r.tableCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}
	return filtered
}
