package organization_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"onghub/internal/core/id"
	"onghub/internal/domain/nomenclature"
	"onghub/internal/domain/organization"
	"onghub/internal/infrastructure/storage/postgres"
)

// GeneralRepo stores organization_general rows.
type GeneralRepo struct {
	t        table[organization.General]
	contacts *ContactRepo
}

var _ organization.GeneralRepository = (*GeneralRepo)(nil)

// NewGeneralRepo creates a general facet repository.
func NewGeneralRepo(txManager *postgres.TxManager, contacts *ContactRepo) *GeneralRepo {
	return &GeneralRepo{t: newTable[organization.General](txManager, "organization_general"), contacts: contacts}
}

func (r *GeneralRepo) Create(ctx context.Context, g *organization.General) error {
	return r.t.insert(ctx, g, g.ID)
}

func (r *GeneralRepo) Update(ctx context.Context, g *organization.General) error {
	return r.t.update(ctx, g, g.ID)
}

// GetByID loads the row with its city, county and contact.
func (r *GeneralRepo) GetByID(ctx context.Context, generalID id.ID) (*organization.General, error) {
	g, err := r.t.get(ctx, generalID)
	if err != nil {
		return nil, err
	}

	q := r.t.querier(ctx)

	var city nomenclature.City
	sql, args, err := builder().Select("id", "name", "county_id").From("_city").Where(squirrel.Eq{"id": g.CityID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build city select: %w", err)
	}
	if err := pgxscan.Get(ctx, q, &city, sql, args...); err != nil {
		return nil, postgres.MapError(err, "city", g.CityID)
	}
	g.City = &city

	var county nomenclature.County
	sql, args, err = builder().Select("id", "name", "abbreviation").From("_county").Where(squirrel.Eq{"id": g.CountyID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build county select: %w", err)
	}
	if err := pgxscan.Get(ctx, q, &county, sql, args...); err != nil {
		return nil, postgres.MapError(err, "county", g.CountyID)
	}
	g.County = &county

	if g.ContactID != nil {
		c, err := r.contacts.get(ctx, *g.ContactID)
		if err != nil {
			return nil, fmt.Errorf("load general contact: %w", err)
		}
		g.Contact = c
	}
	return g, nil
}
