package organization

import (
	"context"
	"fmt"

	"onghub/internal/core/apperror"
	"onghub/internal/core/id"
	"onghub/internal/core/tx"
	"onghub/internal/domain/nomenclature"
)

// ActivityService updates the activity facet.
type ActivityService struct {
	activities ActivityRepository
	refs       ReferenceProvider
	txManager  tx.Manager
}

// NewActivityService creates an ActivityService.
func NewActivityService(activities ActivityRepository, refs ReferenceProvider, txManager tx.Manager) *ActivityService {
	return &ActivityService{activities: activities, refs: refs, txManager: txManager}
}

// Update merges patch into the activity record. Relation lists present in the
// patch are resolved and replace the stored links. The regional/local
// invariant is only enforced at creation.
func (s *ActivityService) Update(ctx context.Context, activityID id.ID, patch ActivityPatch) (*Activity, error) {
	if patch.Area != nil && !patch.Area.IsValid() {
		return nil, apperror.NewValidation("invalid activity area").
			WithDetail("field", "activity.area").
			WithDetail("value", string(*patch.Area))
	}

	relations, err := s.resolveRelations(ctx, patch)
	if err != nil {
		return nil, err
	}

	var out *Activity
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		a, err := s.activities.GetByID(ctx, activityID)
		if err != nil {
			return mapRowErr(err, "organization_activity", activityID)
		}

		setIf(&a.Area, patch.Area)
		setIf(&a.IsPartOfFederation, patch.IsPartOfFederation)
		setIf(&a.IsPartOfCoalition, patch.IsPartOfCoalition)
		setIf(&a.IsPartOfInternationalOrganization, patch.IsPartOfInternationalOrganization)
		setPtrIf(&a.InternationalOrganizationName, patch.InternationalOrganizationName)
		setIf(&a.IsSocialServiceViable, patch.IsSocialServiceViable)
		setIf(&a.OffersGrants, patch.OffersGrants)
		setIf(&a.HasBranches, patch.HasBranches)

		if err := s.activities.Update(ctx, a); err != nil {
			return fmt.Errorf("update organization activity: %w", err)
		}

		for _, rel := range relationOrder {
			ids, ok := relations[rel]
			if !ok {
				continue
			}
			if err := s.activities.ReplaceRelation(ctx, activityID, rel, ids); err != nil {
				return fmt.Errorf("replace activity %s: %w", rel, err)
			}
		}

		out, err = s.activities.GetByID(ctx, activityID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

var relationOrder = []Relation{
	RelationDomains,
	RelationRegions,
	RelationCities,
	RelationFederations,
	RelationCoalitions,
}

// resolveRelations maps every relation present in the patch to the ids that
// actually exist.
func (s *ActivityService) resolveRelations(ctx context.Context, p ActivityPatch) (map[Relation][]int, error) {
	out := make(map[Relation][]int)

	if p.Domains != nil {
		rows, err := s.refs.GetDomains(ctx, p.Domains)
		if err != nil {
			return nil, fmt.Errorf("resolve domains: %w", err)
		}
		out[RelationDomains] = idsOf(rows, func(r nomenclature.Domain) int { return r.ID })
	}
	if p.Regions != nil {
		rows, err := s.refs.GetRegions(ctx, p.Regions)
		if err != nil {
			return nil, fmt.Errorf("resolve regions: %w", err)
		}
		out[RelationRegions] = idsOf(rows, func(r nomenclature.Region) int { return r.ID })
	}
	if p.Cities != nil {
		rows, err := s.refs.GetCities(ctx, p.Cities)
		if err != nil {
			return nil, fmt.Errorf("resolve cities: %w", err)
		}
		out[RelationCities] = idsOf(rows, func(r nomenclature.City) int { return r.ID })
	}
	if p.Federations != nil {
		rows, err := s.refs.GetFederations(ctx, p.Federations)
		if err != nil {
			return nil, fmt.Errorf("resolve federations: %w", err)
		}
		out[RelationFederations] = idsOf(rows, func(r nomenclature.Federation) int { return r.ID })
	}
	if p.Coalitions != nil {
		rows, err := s.refs.GetCoalitions(ctx, p.Coalitions)
		if err != nil {
			return nil, fmt.Errorf("resolve coalitions: %w", err)
		}
		out[RelationCoalitions] = idsOf(rows, func(r nomenclature.Coalition) int { return r.ID })
	}
	return out, nil
}

func idsOf[T any](rows []T, key func(T) int) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, key(r))
	}
	return out
}
