// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"varibulk/internal/core/apperror"
	"varibulk/internal/infrastructure/storage/postgres"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// baseRepo holds the table metadata and tx manager shared by catalog repos.
// Catalog rows are addressed by their unique name column.
type baseRepo[T any] struct {
	txm        *postgres.TxManager
	entity     string
	tableName  string
	selectCols []string
}

func newBaseRepo[T any](txm *postgres.TxManager, entity, table string) baseRepo[T] {
	return baseRepo[T]{
		txm:        txm,
		entity:     entity,
		tableName:  table,
		selectCols: postgres.Columns[T](),
	}
}

func (r *baseRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// selectByName builds the single-row lookup used by GetByName.
func (r *baseRepo[T]) selectByName(name string) squirrel.SelectBuilder {
	return postgres.Builder().
		Select(r.selectCols...).
		From(r.tableName).
		Where(squirrel.Eq{"name": name}).
		Limit(1)
}

// insertQuery builds an INSERT from the entity "db" tags.
func (r *baseRepo[T]) insertQuery(entity *T) squirrel.InsertBuilder {
	return postgres.Builder().
		Insert(r.tableName).
		SetMap(postgres.ToRow(entity, r.selectCols...))
}

// updateQuery builds an optimistic-lock UPDATE keyed by id and expected version.
func (r *baseRepo[T]) updateQuery(entity *T) (squirrel.UpdateBuilder, error) {
	row := postgres.ToRow(entity, r.selectCols...)
	entityID, ok := row["id"]
	if !ok {
		return squirrel.UpdateBuilder{}, fmt.Errorf("%s has no id column", r.tableName)
	}
	version, ok := row["version"].(int)
	if !ok {
		return squirrel.UpdateBuilder{}, fmt.Errorf("%s has no int version column", r.tableName)
	}
	delete(row, "id")
	delete(row, "version")
	delete(row, "created_at")

	return postgres.Builder().
		Update(r.tableName).
		SetMap(row).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"version": version}), nil
}

func (r *baseRepo[T]) getByName(ctx context.Context, name string) (*T, error) {
	sql, args, err := r.selectByName(name).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	entity := new(T)
	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.entity, name)
		}
		return nil, fmt.Errorf("get %s: %w", r.entity, err)
	}
	return entity, nil
}

func (r *baseRepo[T]) exists(ctx context.Context, name string) (bool, error) {
	sql, args, err := postgres.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", r.entity, err)
	}
	return true, nil
}

func (r *baseRepo[T]) insert(ctx context.Context, entity *T, name string) error {
	sql, args, err := r.insertQuery(entity).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return r.mapWriteError(err, name)
	}
	return nil
}

// update returns ConcurrentModification when the expected version no longer matches.
func (r *baseRepo[T]) update(ctx context.Context, entity *T, name string) error {
	q, err := r.updateQuery(entity)
	if err != nil {
		return err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.mapWriteError(err, name)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.entity, name)
	}
	return nil
}

func (r *baseRepo[T]) mapWriteError(err error, name string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperror.NewDuplicate(r.entity, "name", name).WithCause(err)
	}
	return fmt.Errorf("write %s: %w", r.entity, err)
}
