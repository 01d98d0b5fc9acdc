package nomenclature_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"onghub/internal/domain/nomenclature"
	"onghub/internal/infrastructure/storage/postgres"
)

// Dataset is a full set of reference rows, as read from a seed file.
type Dataset struct {
	Counties    []nomenclature.County     `yaml:"counties"`
	Cities      []nomenclature.City       `yaml:"cities"`
	Domains     []nomenclature.Domain     `yaml:"domains"`
	Regions     []nomenclature.Region     `yaml:"regions"`
	Federations []nomenclature.Federation `yaml:"federations"`
	Coalitions  []nomenclature.Coalition  `yaml:"coalitions"`
}

// Counts reports the number of rows per kind.
func (d Dataset) Counts() map[nomenclature.Kind]int {
	return map[nomenclature.Kind]int{
		nomenclature.KindCounty:     len(d.Counties),
		nomenclature.KindCity:       len(d.Cities),
		nomenclature.KindDomain:     len(d.Domains),
		nomenclature.KindRegion:     len(d.Regions),
		nomenclature.KindFederation: len(d.Federations),
		nomenclature.KindCoalition:  len(d.Coalitions),
	}
}

// upsertQuery inserts rows into kind, overwriting rows with the same id.
func upsertQuery[T any](kind nomenclature.Kind, rows []T) squirrel.InsertBuilder {
	cols := postgres.ExtractDBColumns[T]()
	q := builder().Insert(tables[kind]).Columns(cols...)
	for i := range rows {
		data := postgres.StructToMap(&rows[i])
		values := make([]any, len(cols))
		for j, c := range cols {
			values[j] = data[c]
		}
		q = q.Values(values...)
	}

	set := make([]string, 0, len(cols))
	for _, c := range cols {
		if c != "id" {
			set = append(set, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}
	return q.Suffix("ON CONFLICT (id) DO UPDATE SET " + strings.Join(set, ", "))
}

func queueUpsert[T any](b *postgres.Batch, kind nomenclature.Kind, rows []T) {
	if len(rows) > 0 {
		b.Add(upsertQuery(kind, rows))
	}
}

// Seed writes the dataset in one transaction and one round trip. Counties go
// before cities.
func (r *Repo) Seed(ctx context.Context, d Dataset) error {
	var b postgres.Batch
	queueUpsert(&b, nomenclature.KindCounty, d.Counties)
	queueUpsert(&b, nomenclature.KindCity, d.Cities)
	queueUpsert(&b, nomenclature.KindDomain, d.Domains)
	queueUpsert(&b, nomenclature.KindRegion, d.Regions)
	queueUpsert(&b, nomenclature.KindFederation, d.Federations)
	queueUpsert(&b, nomenclature.KindCoalition, d.Coalitions)

	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.txManager.SendBatch(ctx, &b); err != nil {
			return postgres.MapError(err, "nomenclature", b.Len())
		}
		return nil
	})
}
