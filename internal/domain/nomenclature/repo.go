package nomenclature

import "context"

// Repository reads reference rows. A nil ids slice means "all rows"; an
// empty non-nil slice is never passed (the service short-circuits it).
type Repository interface {
	Counties(ctx context.Context) ([]County, error)
	Cities(ctx context.Context, filter CityFilter) ([]City, error)
	Domains(ctx context.Context, ids []int) ([]Domain, error)
	Regions(ctx context.Context, ids []int) ([]Region, error)
	Federations(ctx context.Context, ids []int) ([]Federation, error)
	Coalitions(ctx context.Context, ids []int) ([]Coalition, error)
}

// CityFilter narrows city lookups.
type CityFilter struct {
	IDs      []int
	CountyID *int
	Search   string
}

// Cache stores serialized nomenclature lists. Implementations must treat a
// miss as (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
