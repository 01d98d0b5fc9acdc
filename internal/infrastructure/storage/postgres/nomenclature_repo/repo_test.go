package nomenclature_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onghub/internal/domain/nomenclature"
)

func TestListQuery(t *testing.T) {
	tests := []struct {
		name     string
		ids      []int
		wantSQL  string
		wantArgs int
	}{
		{
			name:    "all rows",
			ids:     nil,
			wantSQL: "SELECT id, name FROM _domain ORDER BY id",
		},
		{
			name:     "by ids",
			ids:      []int{1, 2},
			wantSQL:  "SELECT id, name FROM _domain WHERE id IN ($1,$2) ORDER BY id",
			wantArgs: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := listQuery[nomenclature.Domain](nomenclature.KindDomain, tt.ids).ToSql()

			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Len(t, args, tt.wantArgs)
		})
	}
}

func TestCitiesQuery(t *testing.T) {
	county := 12

	sql, args, err := citiesQuery(nomenclature.CityFilter{CountyID: &county, Search: "cluj"}).ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name, county_id FROM _city WHERE county_id = $1 AND name ILIKE $2 ORDER BY name, id", sql)
	assert.Equal(t, []any{12, "%cluj%"}, args)
}

func TestUpsertQuery(t *testing.T) {
	rows := []nomenclature.County{{ID: 1, Name: "Alba", Abbreviation: "AB"}, {ID: 2, Name: "Arad", Abbreviation: "AR"}}

	sql, args, err := upsertQuery(nomenclature.KindCounty, rows).ToSql()

	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO _county (id,name,abbreviation) VALUES ($1,$2,$3),($4,$5,$6) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, abbreviation = EXCLUDED.abbreviation",
		sql)
	assert.Equal(t, []any{1, "Alba", "AB", 2, "Arad", "AR"}, args)
}

func TestDatasetCounts(t *testing.T) {
	d := Dataset{Counties: make([]nomenclature.County, 2), Cities: make([]nomenclature.City, 5)}

	c := d.Counts()

	assert.Equal(t, 2, c[nomenclature.KindCounty])
	assert.Equal(t, 5, c[nomenclature.KindCity])
	assert.Zero(t, c[nomenclature.KindCoalition])
}
