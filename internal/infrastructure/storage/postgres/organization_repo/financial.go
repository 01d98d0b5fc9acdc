package organization_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"onghub/internal/core/id"
	"onghub/internal/domain/organization"
	"onghub/internal/infrastructure/storage/postgres"
)

// FinancialRepo stores organization_financial rows.
type FinancialRepo struct {
	t table[organization.Financial]
}

var _ organization.FinancialRepository = (*FinancialRepo)(nil)

// NewFinancialRepo creates a financial repository.
func NewFinancialRepo(txManager *postgres.TxManager) *FinancialRepo {
	return &FinancialRepo{t: newTable[organization.Financial](txManager, "organization_financial")}
}

func (r *FinancialRepo) batchQuery(rows []organization.Financial) squirrel.InsertBuilder {
	q := builder().Insert(r.t.name).Columns(r.t.cols...)
	for i := range rows {
		data := postgres.StructToMap(&rows[i])
		values := make([]any, len(r.t.cols))
		for j, col := range r.t.cols {
			values[j] = data[col]
		}
		q = q.Values(values...)
	}
	return q
}

// CreateBatch inserts rows with one statement.
func (r *FinancialRepo) CreateBatch(ctx context.Context, rows []organization.Financial) error {
	if len(rows) == 0 {
		return nil
	}
	sql, args, err := r.batchQuery(rows).ToSql()
	if err != nil {
		return fmt.Errorf("build financial insert: %w", err)
	}
	if _, err := r.t.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, r.t.name, rows[0].OrganizationID)
	}
	return nil
}

func (r *FinancialRepo) GetByID(ctx context.Context, financialID id.ID) (*organization.Financial, error) {
	return r.t.get(ctx, financialID)
}

func (r *FinancialRepo) Update(ctx context.Context, f *organization.Financial) error {
	return r.t.update(ctx, f, f.ID)
}

// ListByOrganization returns the rows of orgID, newest year first, expense
// before income.
func (r *FinancialRepo) ListByOrganization(ctx context.Context, orgID id.ID) ([]organization.Financial, error) {
	return r.t.list(ctx, squirrel.Eq{"organization_id": orgID}, "year DESC", "type ASC")
}
