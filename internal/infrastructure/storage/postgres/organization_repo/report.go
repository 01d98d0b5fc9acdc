package organization_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"onghub/internal/core/id"
	"onghub/internal/domain/organization"
	"onghub/internal/infrastructure/storage/postgres"
)

// ReportRepo stores organization_report and its report, partner and investor
// rows.
type ReportRepo struct {
	t         table[organization.Report]
	entries   table[organization.ReportEntry]
	partners  table[organization.Partner]
	investors table[organization.Investor]
}

var _ organization.ReportRepository = (*ReportRepo)(nil)

// NewReportRepo creates a report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		t:         newTable[organization.Report](txManager, "organization_report"),
		entries:   newTable[organization.ReportEntry](txManager, "report"),
		partners:  newTable[organization.Partner](txManager, "partner"),
		investors: newTable[organization.Investor](txManager, "investor"),
	}
}

// Create inserts the container followed by every child row it carries.
func (r *ReportRepo) Create(ctx context.Context, rep *organization.Report) error {
	if err := r.t.insert(ctx, rep, rep.ID); err != nil {
		return err
	}
	for i := range rep.Reports {
		rep.Reports[i].ReportID = rep.ID
		if err := r.entries.insert(ctx, &rep.Reports[i], rep.Reports[i].ID); err != nil {
			return fmt.Errorf("insert report entry: %w", err)
		}
	}
	for i := range rep.Partners {
		rep.Partners[i].ReportID = rep.ID
		if err := r.partners.insert(ctx, &rep.Partners[i], rep.Partners[i].ID); err != nil {
			return fmt.Errorf("insert partner: %w", err)
		}
	}
	for i := range rep.Investors {
		rep.Investors[i].ReportID = rep.ID
		if err := r.investors.insert(ctx, &rep.Investors[i], rep.Investors[i].ID); err != nil {
			return fmt.Errorf("insert investor: %w", err)
		}
	}
	return nil
}

// GetByID loads the container with its rows, newest year first.
func (r *ReportRepo) GetByID(ctx context.Context, reportID id.ID) (*organization.Report, error) {
	rep, err := r.t.get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	byReport := squirrel.Eq{"organization_report_id": reportID}

	if rep.Reports, err = r.entries.list(ctx, byReport, "year DESC"); err != nil {
		return nil, err
	}
	if rep.Partners, err = r.partners.list(ctx, byReport, "year DESC"); err != nil {
		return nil, err
	}
	if rep.Investors, err = r.investors.list(ctx, byReport, "year DESC"); err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *ReportRepo) UpdateEntry(ctx context.Context, e *organization.ReportEntry) error {
	return r.entries.update(ctx, e, e.ID)
}

func (r *ReportRepo) UpdatePartner(ctx context.Context, p *organization.Partner) error {
	return r.partners.update(ctx, p, p.ID)
}

func (r *ReportRepo) UpdateInvestor(ctx context.Context, i *organization.Investor) error {
	return r.investors.update(ctx, i, i.ID)
}
