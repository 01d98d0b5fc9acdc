package organization_repo

import (
	"context"
	"fmt"

	"onghub/internal/core/apperror"
	"onghub/internal/core/id"
	"onghub/internal/domain/organization"
	"onghub/internal/infrastructure/storage/postgres"
)

// OrganizationRepo stores the aggregate root and assembles the full graph.
type OrganizationRepo struct {
	t          table[organization.Organization]
	generals   *GeneralRepo
	activities *ActivityRepo
	legals     *LegalRepo
	financials *FinancialRepo
	reports    *ReportRepo
}

var _ organization.Repository = (*OrganizationRepo)(nil)

// Repos bundles every repository of the aggregate.
type Repos struct {
	Organizations *OrganizationRepo
	Generals      *GeneralRepo
	Activities    *ActivityRepo
	Legals        *LegalRepo
	Contacts      *ContactRepo
	Financials    *FinancialRepo
	Reports       *ReportRepo
}

// New creates the aggregate repositories over one transaction manager.
func New(txManager *postgres.TxManager) Repos {
	contacts := NewContactRepo(txManager)
	r := Repos{
		Generals:   NewGeneralRepo(txManager, contacts),
		Activities: NewActivityRepo(txManager),
		Legals:     NewLegalRepo(txManager, contacts),
		Contacts:   contacts,
		Financials: NewFinancialRepo(txManager),
		Reports:    NewReportRepo(txManager),
	}
	r.Organizations = &OrganizationRepo{
		t:          newTable[organization.Organization](txManager, "organization"),
		generals:   r.Generals,
		activities: r.Activities,
		legals:     r.Legals,
		financials: r.Financials,
		reports:    r.Reports,
	}
	return r
}

func (r *OrganizationRepo) Create(ctx context.Context, org *organization.Organization) error {
	return r.t.insert(ctx, org, org.ID)
}

// GetByID loads the root row only.
func (r *OrganizationRepo) GetByID(ctx context.Context, orgID id.ID) (*organization.Organization, error) {
	return r.t.get(ctx, orgID)
}

// GetAggregate loads the root row and every facet. Only a missing root row
// reports not found; a missing facet row is an internal error.
func (r *OrganizationRepo) GetAggregate(ctx context.Context, orgID id.ID) (*organization.Organization, error) {
	org, err := r.t.get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org.General, err = r.generals.GetByID(ctx, org.GeneralID); err != nil {
		return nil, facetError(org.ID, "general", err)
	}
	if org.Activity, err = r.activities.GetByID(ctx, org.ActivityID); err != nil {
		return nil, facetError(org.ID, "activity", err)
	}
	if org.Legal, err = r.legals.GetByID(ctx, org.LegalID); err != nil {
		return nil, facetError(org.ID, "legal", err)
	}
	if org.Financial, err = r.financials.ListByOrganization(ctx, org.ID); err != nil {
		return nil, facetError(org.ID, "financial", err)
	}
	if org.Report, err = r.reports.GetByID(ctx, org.ReportID); err != nil {
		return nil, facetError(org.ID, "report", err)
	}
	return org, nil
}

// facetError keeps a missing facet row from reading as a missing organization.
func facetError(orgID id.ID, facet string, err error) error {
	if apperror.IsNotFound(err) {
		return apperror.NewInternal(fmt.Errorf("organization %s has no %s row: %w", orgID, facet, err))
	}
	return fmt.Errorf("load %s: %w", facet, err)
}
