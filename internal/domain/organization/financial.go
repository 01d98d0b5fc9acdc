package organization

import (
	"context"
	"fmt"

	"onghub/internal/core/apperror"
	"onghub/internal/core/id"
	"onghub/internal/core/tx"
	"onghub/internal/core/types"
)

// FinancialService updates financial rows.
type FinancialService struct {
	financials FinancialRepository
	txManager  tx.Manager
}

// NewFinancialService creates a FinancialService.
func NewFinancialService(financials FinancialRepository, txManager tx.Manager) *FinancialService {
	return &FinancialService{financials: financials, txManager: txManager}
}

// Update changes the row addressed by patch.ID, which must belong to orgID.
// Setting the total marks the row completed; totals are rounded to
// types.MoneyScale decimals.
func (s *FinancialService) Update(ctx context.Context, orgID id.ID, patch FinancialPatch) (*Financial, error) {
	if id.IsNil(patch.ID) {
		return nil, apperror.NewValidation("financial row id is required").WithDetail("field", "financial.id")
	}
	if patch.Total != nil && patch.Total.IsNegative() {
		return nil, apperror.NewValidation("total must not be negative").WithDetail("field", "financial.total")
	}
	if patch.NumberOfEmployees != nil && *patch.NumberOfEmployees < 0 {
		return nil, apperror.NewValidation("numberOfEmployees must not be negative").
			WithDetail("field", "financial.numberOfEmployees")
	}

	var out *Financial
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		row, err := s.financials.GetByID(ctx, patch.ID)
		if err != nil {
			return mapRowErr(err, "organization_financial", patch.ID)
		}
		if row.OrganizationID != orgID {
			return errRowNotFound("organization_financial", patch.ID)
		}

		if patch.Total != nil {
			row.Total = types.RoundMoney(*patch.Total)
			row.Status = StatusCompleted
		}
		setIf(&row.NumberOfEmployees, patch.NumberOfEmployees)

		if err := s.financials.Update(ctx, row); err != nil {
			return fmt.Errorf("update organization financial: %w", err)
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
