package organization

import (
	"context"
	"fmt"

	"onghub/internal/core/id"
	"onghub/internal/core/tx"
)

// ReportService updates the yearly rows of the report facet.
type ReportService struct {
	reports   ReportRepository
	txManager tx.Manager
}

// NewReportService creates a ReportService.
func NewReportService(reports ReportRepository, txManager tx.Manager) *ReportService {
	return &ReportService{reports: reports, txManager: txManager}
}

// Update applies every row patch, each addressed by its own id within the
// report, and returns the reloaded report. Updated rows are marked completed.
func (s *ReportService) Update(ctx context.Context, reportID id.ID, patch ReportPatch) (*Report, error) {
	var out *Report
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := s.reports.GetByID(ctx, reportID)
		if err != nil {
			return mapRowErr(err, "organization_report", reportID)
		}

		for _, p := range patch.Reports {
			e := findByID(r.Reports, p.ID, func(e *ReportEntry) id.ID { return e.ID })
			if e == nil {
				return errRowNotFound("report", p.ID)
			}
			setIf(&e.Report, p.Report)
			setIf(&e.NumberOfVolunteers, p.NumberOfVolunteers)
			setIf(&e.NumberOfContractors, p.NumberOfContractors)
			e.Status = StatusCompleted
			if err := s.reports.UpdateEntry(ctx, e); err != nil {
				return fmt.Errorf("update report entry: %w", err)
			}
		}

		for _, p := range patch.Partners {
			pt := findByID(r.Partners, p.ID, func(e *Partner) id.ID { return e.ID })
			if pt == nil {
				return errRowNotFound("partner", p.ID)
			}
			setIf(&pt.NumberOfPartners, p.NumberOfPartners)
			pt.Status = StatusCompleted
			if err := s.reports.UpdatePartner(ctx, pt); err != nil {
				return fmt.Errorf("update partner: %w", err)
			}
		}

		for _, p := range patch.Investors {
			inv := findByID(r.Investors, p.ID, func(e *Investor) id.ID { return e.ID })
			if inv == nil {
				return errRowNotFound("investor", p.ID)
			}
			setIf(&inv.NumberOfInvestors, p.NumberOfInvestors)
			inv.Status = StatusCompleted
			if err := s.reports.UpdateInvestor(ctx, inv); err != nil {
				return fmt.Errorf("update investor: %w", err)
			}
		}

		out, err = s.reports.GetByID(ctx, reportID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// findByID returns a pointer into rows for the element with the given id.
func findByID[T any](rows []T, want id.ID, key func(*T) id.ID) *T {
	for i := range rows {
		if key(&rows[i]) == want {
			return &rows[i]
		}
	}
	return nil
}
