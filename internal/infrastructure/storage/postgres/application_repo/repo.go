// Package application_repo provides the PostgreSQL application catalog
// repository.
package application_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"onghub/internal/core/apperror"
	"onghub/internal/core/id"
	"onghub/internal/domain"
	"onghub/internal/domain/application"
	"onghub/internal/infrastructure/storage/postgres"
)

var (
	appCols    = postgres.ExtractDBColumns[application.Application]()
	ongAppCols = postgres.ExtractDBColumns[application.OngApplication]()
	orderCols  = []string{"name", "type", "created_at", "updated_at"}
)

// Repo stores applications and organization access requests.
type Repo struct {
	txManager *postgres.TxManager
}

var _ application.Repository = (*Repo)(nil)

// New creates an application repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) exec(ctx context.Context, q squirrel.Sqlizer, entity string, key id.ID) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s statement: %w", entity, err)
	}
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, entity, key)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) Create(ctx context.Context, app *application.Application) error {
	_, err := r.exec(ctx, builder().Insert("application").SetMap(postgres.StructToMap(app)), "application", app.ID)
	return err
}

func updateQuery(app *application.Application) squirrel.UpdateBuilder {
	return builder().Update("application").
		SetMap(postgres.UpdateMap(app)).
		Set(postgres.ColUpdatedAt, squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": app.ID})
}

func (r *Repo) Update(ctx context.Context, app *application.Application) error {
	n, err := r.exec(ctx, updateQuery(app), "application", app.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("application", app.ID.String())
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, appID id.ID) (*application.Application, error) {
	sql, args, err := builder().Select(appCols...).From("application").Where(squirrel.Eq{"id": appID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build application select: %w", err)
	}
	var app application.Application
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &app, sql, args...); err != nil {
		return nil, postgres.MapError(err, "application", appID.String())
	}
	return &app, nil
}

func listQuery(filter domain.ListFilter) squirrel.SelectBuilder {
	q := builder().Select(appCols...).From("application")
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}
	return q
}

func (r *Repo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[application.Application], error) {
	return postgres.ListPage[application.Application](ctx, r.txManager.GetQuerier(ctx), listQuery(filter), filter, orderCols, "created_at DESC")
}

// withStatusQuery selects the catalog with the status of orgID's request,
// NULL when no request exists.
func withStatusQuery(orgID id.ID) squirrel.SelectBuilder {
	cols := make([]string, 0, len(appCols)+1)
	for _, c := range appCols {
		cols = append(cols, "a."+c)
	}
	cols = append(cols, "oa.status")
	return builder().Select(cols...).
		From("application a").
		LeftJoin("ong_application oa ON oa.application_id = a.id AND oa.organization_id = ?", orgID)
}

func (r *Repo) ListForOrganization(ctx context.Context, orgID id.ID) ([]application.WithOngStatus, error) {
	sql, args, err := withStatusQuery(orgID).OrderBy("a.name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build application list: %w", err)
	}
	items := []application.WithOngStatus{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list applications for organization: %w", err)
	}
	return items, nil
}

func (r *Repo) GetForOrganization(ctx context.Context, orgID, appID id.ID) (*application.WithOngStatus, error) {
	sql, args, err := withStatusQuery(orgID).Where(squirrel.Eq{"a.id": appID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build application select: %w", err)
	}
	var item application.WithOngStatus
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &item, sql, args...); err != nil {
		return nil, postgres.MapError(err, "application", appID.String())
	}
	return &item, nil
}

func (r *Repo) GetOngApplication(ctx context.Context, orgID, appID id.ID) (*application.OngApplication, error) {
	sql, args, err := builder().Select(ongAppCols...).
		From("ong_application").
		Where(squirrel.Eq{"organization_id": orgID, "application_id": appID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ong application select: %w", err)
	}
	var oa application.OngApplication
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &oa, sql, args...); err != nil {
		return nil, postgres.MapError(err, "ong_application", appID.String())
	}
	return &oa, nil
}

func (r *Repo) CreateOngApplication(ctx context.Context, oa *application.OngApplication) error {
	_, err := r.exec(ctx, builder().Insert("ong_application").SetMap(postgres.StructToMap(oa)), "ong_application", oa.ID)
	return err
}

func (r *Repo) UpdateOngApplication(ctx context.Context, oa *application.OngApplication) error {
	n, err := r.exec(ctx, builder().Update("ong_application").
		Set("status", oa.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": oa.ID}), "ong_application", oa.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("ong_application", oa.ID.String())
	}
	return nil
}
