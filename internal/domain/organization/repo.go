package organization

import (
	"context"

	"onghub/internal/core/id"
	"onghub/internal/domain/nomenclature"
)

// Repository persists the organization root row.
type Repository interface {
	Create(ctx context.Context, org *Organization) error

	// GetByID loads the root row only.
	GetByID(ctx context.Context, orgID id.ID) (*Organization, error)

	// GetAggregate loads the root row with its full relation graph.
	GetAggregate(ctx context.Context, orgID id.ID) (*Organization, error)
}

// GeneralRepository persists the general facet.
type GeneralRepository interface {
	Create(ctx context.Context, g *General) error
	Update(ctx context.Context, g *General) error

	// GetByID loads the row with City, County and Contact populated.
	GetByID(ctx context.Context, generalID id.ID) (*General, error)
}

// ActivityRepository persists the activity facet and its join tables.
type ActivityRepository interface {
	Create(ctx context.Context, a *Activity) error
	Update(ctx context.Context, a *Activity) error

	// ReplaceRelation sets the linked nomenclature ids for one relation.
	ReplaceRelation(ctx context.Context, activityID id.ID, rel Relation, ids []int) error

	// GetByID loads the row with every relation populated.
	GetByID(ctx context.Context, activityID id.ID) (*Activity, error)
}

// LegalRepository persists the legal facet.
type LegalRepository interface {
	Create(ctx context.Context, l *Legal) error
	Update(ctx context.Context, l *Legal) error

	// GetByID loads the row with LegalRepresentative and Directors populated.
	GetByID(ctx context.Context, legalID id.ID) (*Legal, error)
}

// ContactRepository persists contacts.
type ContactRepository interface {
	// Save inserts the contact or updates it when the id already exists.
	Save(ctx context.Context, c *Contact) error

	// DeleteDirectors removes the given director contacts of one legal record.
	DeleteDirectors(ctx context.Context, legalID id.ID, ids []id.ID) error
}

// FinancialRepository persists financial rows.
type FinancialRepository interface {
	CreateBatch(ctx context.Context, rows []Financial) error
	GetByID(ctx context.Context, financialID id.ID) (*Financial, error)
	Update(ctx context.Context, f *Financial) error
}

// ReportRepository persists the report container and its yearly rows.
type ReportRepository interface {
	// Create inserts the container and every child row it carries.
	Create(ctx context.Context, r *Report) error

	// GetByID loads the container with Reports, Partners and Investors populated.
	GetByID(ctx context.Context, reportID id.ID) (*Report, error)

	UpdateEntry(ctx context.Context, e *ReportEntry) error
	UpdatePartner(ctx context.Context, p *Partner) error
	UpdateInvestor(ctx context.Context, i *Investor) error
}

// HistoryStore keeps the change log of organizations.
type HistoryStore interface {
	Record(ctx context.Context, entry *HistoryEntry) error
	List(ctx context.Context, orgID id.ID, limit int) ([]HistoryEntry, error)
}

// ReferenceProvider resolves nomenclature ids. Unknown ids are omitted.
type ReferenceProvider interface {
	GetDomains(ctx context.Context, ids []int) ([]nomenclature.Domain, error)
	GetRegions(ctx context.Context, ids []int) ([]nomenclature.Region, error)
	GetCities(ctx context.Context, ids []int) ([]nomenclature.City, error)
	GetFederations(ctx context.Context, ids []int) ([]nomenclature.Federation, error)
	GetCoalitions(ctx context.Context, ids []int) ([]nomenclature.Coalition, error)
}

// RegistryClient fetches official financial data for a tax identifier.
type RegistryClient interface {
	GetFinancialInformation(ctx context.Context, cui string, year int) (FinancialInformation, error)
}

// CreateObserver receives the outcome of every create call. Optional.
type CreateObserver interface {
	ObserveOrganizationCreate(result string, seconds float64)
}
