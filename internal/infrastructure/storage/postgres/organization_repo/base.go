// Package organization_repo provides the PostgreSQL repositories of the
// organization aggregate. Every repository reads the active transaction from
// the context through TxManager.GetQuerier.
package organization_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"onghub/internal/core/apperror"
	"onghub/internal/core/id"
	"onghub/internal/infrastructure/storage/postgres"
)

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// table provides the single-row CRUD shared by every aggregate table.
type table[T any] struct {
	name      string
	cols      []string
	txManager *postgres.TxManager
}

func newTable[T any](txManager *postgres.TxManager, name string) table[T] {
	return table[T]{
		name:      name,
		cols:      postgres.ExtractDBColumns[T](),
		txManager: txManager,
	}
}

func (t table[T]) querier(ctx context.Context) postgres.Querier {
	return t.txManager.GetQuerier(ctx)
}

func (t table[T]) insertQuery(row *T) squirrel.InsertBuilder {
	return builder().Insert(t.name).SetMap(postgres.InsertMap(row, time.Now().UTC()))
}

// updateQuery sets every column except id and created_at.
func (t table[T]) updateQuery(row *T, rowID id.ID) squirrel.UpdateBuilder {
	return builder().Update(t.name).
		SetMap(postgres.UpdateMap(row)).
		Set(postgres.ColUpdatedAt, squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rowID})
}

func (t table[T]) selectQuery() squirrel.SelectBuilder {
	return builder().Select(t.cols...).From(t.name)
}

func (t table[T]) insert(ctx context.Context, row *T, rowID id.ID) error {
	sql, args, err := t.insertQuery(row).ToSql()
	if err != nil {
		return fmt.Errorf("build %s insert: %w", t.name, err)
	}
	if _, err := t.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, t.name, rowID)
	}
	return nil
}

func (t table[T]) update(ctx context.Context, row *T, rowID id.ID) error {
	sql, args, err := t.updateQuery(row, rowID).ToSql()
	if err != nil {
		return fmt.Errorf("build %s update: %w", t.name, err)
	}
	tag, err := t.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, t.name, rowID)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(t.name, rowID.String())
	}
	return nil
}

func (t table[T]) get(ctx context.Context, rowID id.ID) (*T, error) {
	sql, args, err := t.selectQuery().Where(squirrel.Eq{"id": rowID}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s select: %w", t.name, err)
	}
	row := new(T)
	if err := pgxscan.Get(ctx, t.querier(ctx), row, sql, args...); err != nil {
		return nil, postgres.MapError(err, t.name, rowID.String())
	}
	return row, nil
}

func (t table[T]) list(ctx context.Context, where any, orderBy ...string) ([]T, error) {
	sql, args, err := t.selectQuery().Where(where).OrderBy(orderBy...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s select: %w", t.name, err)
	}
	rows := []T{}
	if err := pgxscan.Select(ctx, t.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return rows, nil
}
