package nomenclature

import (
	"context"
	"encoding/json"
	"fmt"

	"onghub/pkg/logger"
)

// Service resolves reference rows by id and serves the public lists.
type Service struct {
	repo  Repository
	cache Cache // optional
}

// NewService creates a nomenclature service. cache may be nil.
func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// GetDomains returns the domains matching ids. Unknown ids are omitted.
func (s *Service) GetDomains(ctx context.Context, ids []int) ([]Domain, error) {
	if len(ids) == 0 {
		return []Domain{}, nil
	}
	return s.repo.Domains(ctx, ids)
}

// GetRegions returns the regions matching ids. Unknown ids are omitted.
func (s *Service) GetRegions(ctx context.Context, ids []int) ([]Region, error) {
	if len(ids) == 0 {
		return []Region{}, nil
	}
	return s.repo.Regions(ctx, ids)
}

// GetCities returns the cities matching ids. Unknown ids are omitted.
func (s *Service) GetCities(ctx context.Context, ids []int) ([]City, error) {
	if len(ids) == 0 {
		return []City{}, nil
	}
	return s.repo.Cities(ctx, CityFilter{IDs: ids})
}

// GetFederations returns the federations matching ids. Unknown ids are omitted.
func (s *Service) GetFederations(ctx context.Context, ids []int) ([]Federation, error) {
	if len(ids) == 0 {
		return []Federation{}, nil
	}
	return s.repo.Federations(ctx, ids)
}

// GetCoalitions returns the coalitions matching ids. Unknown ids are omitted.
func (s *Service) GetCoalitions(ctx context.Context, ids []int) ([]Coalition, error) {
	if len(ids) == 0 {
		return []Coalition{}, nil
	}
	return s.repo.Coalitions(ctx, ids)
}

// ListCounties returns every county.
func (s *Service) ListCounties(ctx context.Context) ([]County, error) {
	return cached(ctx, s, string(KindCounty), s.repo.Counties)
}

// ListCities returns cities, optionally restricted to a county and a name search.
// Searches bypass the cache.
func (s *Service) ListCities(ctx context.Context, countyID *int, search string) ([]City, error) {
	filter := CityFilter{CountyID: countyID, Search: search}
	if search != "" || countyID == nil {
		return s.repo.Cities(ctx, filter)
	}
	key := fmt.Sprintf("%s:county:%d", KindCity, *countyID)
	return cached(ctx, s, key, func(ctx context.Context) ([]City, error) {
		return s.repo.Cities(ctx, filter)
	})
}

// ListDomains returns every domain.
func (s *Service) ListDomains(ctx context.Context) ([]Domain, error) {
	return cached(ctx, s, string(KindDomain), func(ctx context.Context) ([]Domain, error) {
		return s.repo.Domains(ctx, nil)
	})
}

// ListRegions returns every region.
func (s *Service) ListRegions(ctx context.Context) ([]Region, error) {
	return cached(ctx, s, string(KindRegion), func(ctx context.Context) ([]Region, error) {
		return s.repo.Regions(ctx, nil)
	})
}

// ListFederations returns every federation.
func (s *Service) ListFederations(ctx context.Context) ([]Federation, error) {
	return cached(ctx, s, string(KindFederation), func(ctx context.Context) ([]Federation, error) {
		return s.repo.Federations(ctx, nil)
	})
}

// ListCoalitions returns every coalition.
func (s *Service) ListCoalitions(ctx context.Context) ([]Coalition, error) {
	return cached(ctx, s, string(KindCoalition), func(ctx context.Context) ([]Coalition, error) {
		return s.repo.Coalitions(ctx, nil)
	})
}

// cached is a read-through helper. Cache failures are logged and never fail the call.
func cached[T any](ctx context.Context, s *Service, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn(ctx, "nomenclature cache get failed", "key", key, "error", err)
		} else if ok {
			var items []T
			if err := json.Unmarshal(raw, &items); err == nil {
				return items, nil
			}
			logger.Warn(ctx, "nomenclature cache entry corrupt", "key", key)
		}
	}

	items, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(items); err == nil {
			if err := s.cache.Set(ctx, key, raw); err != nil {
				logger.Warn(ctx, "nomenclature cache set failed", "key", key, "error", err)
			}
		}
	}
	return items, nil
}
