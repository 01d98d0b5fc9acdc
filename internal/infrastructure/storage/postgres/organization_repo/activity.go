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

// link describes the join table behind one activity relation.
type link struct {
	table     string
	column    string
	reference string
}

var links = map[organization.Relation]link{
	organization.RelationDomains:     {table: "organization_activity_domain", column: "domain_id", reference: "_domain"},
	organization.RelationRegions:     {table: "organization_activity_region", column: "region_id", reference: "_region"},
	organization.RelationCities:      {table: "organization_activity_city", column: "city_id", reference: "_city"},
	organization.RelationFederations: {table: "organization_activity_federation", column: "federation_id", reference: "_federation"},
	organization.RelationCoalitions:  {table: "organization_activity_coalition", column: "coalition_id", reference: "_coalition"},
}

// ActivityRepo stores organization_activity rows and their join tables.
type ActivityRepo struct {
	t table[organization.Activity]
}

var _ organization.ActivityRepository = (*ActivityRepo)(nil)

// NewActivityRepo creates an activity facet repository.
func NewActivityRepo(txManager *postgres.TxManager) *ActivityRepo {
	return &ActivityRepo{t: newTable[organization.Activity](txManager, "organization_activity")}
}

func (r *ActivityRepo) Create(ctx context.Context, a *organization.Activity) error {
	return r.t.insert(ctx, a, a.ID)
}

func (r *ActivityRepo) Update(ctx context.Context, a *organization.Activity) error {
	return r.t.update(ctx, a, a.ID)
}

func unlinkQuery(l link, activityID id.ID) squirrel.DeleteBuilder {
	return builder().Delete(l.table).Where(squirrel.Eq{"organization_activity_id": activityID})
}

func linkQuery(l link, activityID id.ID, ids []int) squirrel.InsertBuilder {
	q := builder().Insert(l.table).Columns("organization_activity_id", l.column)
	for _, v := range ids {
		q = q.Values(activityID, v)
	}
	return q.Suffix("ON CONFLICT DO NOTHING")
}

// ReplaceRelation drops every link of rel and inserts ids in its place. Both
// statements travel in one batch.
func (r *ActivityRepo) ReplaceRelation(ctx context.Context, activityID id.ID, rel organization.Relation, ids []int) error {
	l, ok := links[rel]
	if !ok {
		return fmt.Errorf("unknown activity relation %q", rel)
	}

	var b postgres.Batch
	b.Add(unlinkQuery(l, activityID))
	if len(ids) > 0 {
		b.Add(linkQuery(l, activityID, ids))
	}
	if err := r.t.txManager.SendBatch(ctx, &b); err != nil {
		return postgres.MapError(err, l.table, activityID)
	}
	return nil
}

func linkedQuery[T any](rel organization.Relation, activityID id.ID) squirrel.SelectBuilder {
	l := links[rel]
	cols := postgres.ExtractDBColumns[T]()
	for i, c := range cols {
		cols[i] = "n." + c
	}
	return builder().Select(cols...).
		From(l.reference + " n").
		Join(fmt.Sprintf("%s l ON l.%s = n.id", l.table, l.column)).
		Where(squirrel.Eq{"l.organization_activity_id": activityID}).
		OrderBy("n.id")
}

func linked[T any](ctx context.Context, q postgres.Querier, rel organization.Relation, activityID id.ID) ([]T, error) {
	sql, args, err := linkedQuery[T](rel, activityID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s select: %w", rel, err)
	}
	rows := []T{}
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("load activity %s: %w", rel, err)
	}
	return rows, nil
}

// GetByID loads the row with every relation.
func (r *ActivityRepo) GetByID(ctx context.Context, activityID id.ID) (*organization.Activity, error) {
	a, err := r.t.get(ctx, activityID)
	if err != nil {
		return nil, err
	}
	q := r.t.querier(ctx)

	if a.Domains, err = linked[nomenclature.Domain](ctx, q, organization.RelationDomains, activityID); err != nil {
		return nil, err
	}
	if a.Regions, err = linked[nomenclature.Region](ctx, q, organization.RelationRegions, activityID); err != nil {
		return nil, err
	}
	if a.Cities, err = linked[nomenclature.City](ctx, q, organization.RelationCities, activityID); err != nil {
		return nil, err
	}
	if a.Federations, err = linked[nomenclature.Federation](ctx, q, organization.RelationFederations, activityID); err != nil {
		return nil, err
	}
	if a.Coalitions, err = linked[nomenclature.Coalition](ctx, q, organization.RelationCoalitions, activityID); err != nil {
		return nil, err
	}
	return a, nil
}
