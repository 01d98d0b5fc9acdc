// Package nomenclature_repo provides the PostgreSQL reference-data repository.
package nomenclature_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"onghub/internal/domain/nomenclature"
	"onghub/internal/infrastructure/storage/postgres"
)

var tables = map[nomenclature.Kind]string{
	nomenclature.KindCounty:     "_county",
	nomenclature.KindCity:       "_city",
	nomenclature.KindDomain:     "_domain",
	nomenclature.KindRegion:     "_region",
	nomenclature.KindFederation: "_federation",
	nomenclature.KindCoalition:  "_coalition",
}

// Repo reads and seeds the nomenclature tables.
type Repo struct {
	txManager *postgres.TxManager
}

var _ nomenclature.Repository = (*Repo)(nil)

// New creates a nomenclature repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// listQuery selects the columns of T from kind, restricted to ids unless ids
// is nil.
func listQuery[T any](kind nomenclature.Kind, ids []int) squirrel.SelectBuilder {
	q := builder().Select(postgres.ExtractDBColumns[T]()...).From(tables[kind])
	if ids != nil {
		q = q.Where(squirrel.Eq{"id": ids})
	}
	return q.OrderBy("id")
}

func selectAll[T any](ctx context.Context, q postgres.Querier, b squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build nomenclature select: %w", err)
	}
	rows := []T{}
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select nomenclature: %w", err)
	}
	return rows, nil
}

func (r *Repo) Counties(ctx context.Context) ([]nomenclature.County, error) {
	return selectAll[nomenclature.County](ctx, r.txManager.GetQuerier(ctx), listQuery[nomenclature.County](nomenclature.KindCounty, nil))
}

func citiesQuery(filter nomenclature.CityFilter) squirrel.SelectBuilder {
	q := builder().Select(postgres.ExtractDBColumns[nomenclature.City]()...).From(tables[nomenclature.KindCity])
	if filter.IDs != nil {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	if filter.CountyID != nil {
		q = q.Where(squirrel.Eq{"county_id": *filter.CountyID})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}
	return q.OrderBy("name", "id")
}

func (r *Repo) Cities(ctx context.Context, filter nomenclature.CityFilter) ([]nomenclature.City, error) {
	return selectAll[nomenclature.City](ctx, r.txManager.GetQuerier(ctx), citiesQuery(filter))
}

func (r *Repo) Domains(ctx context.Context, ids []int) ([]nomenclature.Domain, error) {
	return selectAll[nomenclature.Domain](ctx, r.txManager.GetQuerier(ctx), listQuery[nomenclature.Domain](nomenclature.KindDomain, ids))
}

func (r *Repo) Regions(ctx context.Context, ids []int) ([]nomenclature.Region, error) {
	return selectAll[nomenclature.Region](ctx, r.txManager.GetQuerier(ctx), listQuery[nomenclature.Region](nomenclature.KindRegion, ids))
}

func (r *Repo) Federations(ctx context.Context, ids []int) ([]nomenclature.Federation, error) {
	return selectAll[nomenclature.Federation](ctx, r.txManager.GetQuerier(ctx), listQuery[nomenclature.Federation](nomenclature.KindFederation, ids))
}

func (r *Repo) Coalitions(ctx context.Context, ids []int) ([]nomenclature.Coalition, error) {
	return selectAll[nomenclature.Coalition](ctx, r.txManager.GetQuerier(ctx), listQuery[nomenclature.Coalition](nomenclature.KindCoalition, ids))
}
