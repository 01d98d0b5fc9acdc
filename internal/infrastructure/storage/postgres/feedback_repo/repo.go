// Package feedback_repo provides the PostgreSQL civic-center feedback
// repository.
package feedback_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"onghub/internal/core/apperror"
	"onghub/internal/core/id"
	"onghub/internal/domain"
	"onghub/internal/domain/feedback"
	"onghub/internal/infrastructure/storage/postgres"
)

var (
	feedbackCols = postgres.ExtractDBColumns[feedback.Feedback]()
	orderCols    = []string{"rating", "interaction_date", "created_at"}
)

// Repo stores feedback rows.
type Repo struct {
	txManager *postgres.TxManager
}

var _ feedback.Repository = (*Repo)(nil)

// New creates a feedback repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) ServiceExists(ctx context.Context, serviceID id.ID) (bool, error) {
	sql, args, err := builder().Select("1").From("civic_center_service").Where(squirrel.Eq{"id": serviceID}).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("build service lookup: %w", err)
	}
	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("service lookup: %w", err)
	}
	return true, nil
}

func (r *Repo) Create(ctx context.Context, f *feedback.Feedback) error {
	sql, args, err := builder().Insert("feedback").SetMap(postgres.StructToMap(f)).ToSql()
	if err != nil {
		return fmt.Errorf("build feedback insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "feedback", f.ID)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, feedbackID id.ID) (*feedback.Feedback, error) {
	sql, args, err := builder().Select(feedbackCols...).From("feedback").Where(squirrel.Eq{"id": feedbackID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build feedback select: %w", err)
	}
	var f feedback.Feedback
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &f, sql, args...); err != nil {
		return nil, postgres.MapError(err, "feedback", feedbackID.String())
	}
	return &f, nil
}

// byOrganizationQuery selects the feedback of every service owned by orgID.
func byOrganizationQuery(orgID id.ID, filter domain.ListFilter) squirrel.SelectBuilder {
	cols := make([]string, len(feedbackCols))
	for i, c := range feedbackCols {
		cols[i] = "f." + c
	}
	q := builder().Select(cols...).
		From("feedback f").
		Join("civic_center_service s ON s.id = f.civic_center_service_id").
		Where(squirrel.Eq{"s.organization_id": orgID})
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"f.message": "%" + filter.Search + "%"})
	}
	return q
}

func (r *Repo) ListByOrganization(ctx context.Context, orgID id.ID, filter domain.ListFilter) (domain.ListResult[feedback.Feedback], error) {
	return postgres.ListPage[feedback.Feedback](ctx, r.txManager.GetQuerier(ctx), byOrganizationQuery(orgID, filter), filter, orderCols, "created_at DESC")
}

func (r *Repo) Delete(ctx context.Context, feedbackID id.ID) error {
	sql, args, err := builder().Delete("feedback").Where(squirrel.Eq{"id": feedbackID}).ToSql()
	if err != nil {
		return fmt.Errorf("build feedback delete: %w", err)
	}
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "feedback", feedbackID)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("feedback", feedbackID.String())
	}
	return nil
}
