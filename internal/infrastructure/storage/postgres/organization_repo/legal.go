package organization_repo

import (
	"context"
	"fmt"

	"onghub/internal/core/id"
	"onghub/internal/domain/organization"
	"onghub/internal/infrastructure/storage/postgres"
)

// LegalRepo stores organization_legal rows.
type LegalRepo struct {
	t        table[organization.Legal]
	contacts *ContactRepo
}

var _ organization.LegalRepository = (*LegalRepo)(nil)

// NewLegalRepo creates a legal facet repository.
func NewLegalRepo(txManager *postgres.TxManager, contacts *ContactRepo) *LegalRepo {
	return &LegalRepo{t: newTable[organization.Legal](txManager, "organization_legal"), contacts: contacts}
}

func (r *LegalRepo) Create(ctx context.Context, l *organization.Legal) error {
	return r.t.insert(ctx, l, l.ID)
}

func (r *LegalRepo) Update(ctx context.Context, l *organization.Legal) error {
	return r.t.update(ctx, l, l.ID)
}

// GetByID loads the row with its legal representative and directors.
func (r *LegalRepo) GetByID(ctx context.Context, legalID id.ID) (*organization.Legal, error) {
	l, err := r.t.get(ctx, legalID)
	if err != nil {
		return nil, err
	}
	if l.LegalRepresentativeID != nil {
		rep, err := r.contacts.get(ctx, *l.LegalRepresentativeID)
		if err != nil {
			return nil, fmt.Errorf("load legal representative: %w", err)
		}
		l.LegalRepresentative = rep
	}
	l.Directors, err = r.contacts.directors(ctx, legalID)
	if err != nil {
		return nil, err
	}
	return l, nil
}
