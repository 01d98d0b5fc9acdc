package organization_repo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onghub/internal/core/apperror"
	"onghub/internal/core/id"
	"onghub/internal/core/types"
	"onghub/internal/domain/nomenclature"
	"onghub/internal/domain/organization"
)

func TestLinkQueries(t *testing.T) {
	activityID := id.New()
	l := links[organization.RelationDomains]

	sql, args, err := unlinkQuery(l, activityID).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM organization_activity_domain WHERE organization_activity_id = $1", sql)
	assert.Len(t, args, 1)

	sql, args, err = linkQuery(l, activityID, []int{1, 2}).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO organization_activity_domain (organization_activity_id,domain_id) VALUES ($1,$2),($3,$4) ON CONFLICT DO NOTHING",
		sql)
	assert.Equal(t, []any{activityID, 1, activityID, 2}, args)
}

func TestLinkedQuery(t *testing.T) {
	sql, _, err := linkedQuery[nomenclature.City](organization.RelationCities, id.New()).ToSql()

	require.NoError(t, err)
	assert.Equal(t,
		"SELECT n.id, n.name, n.county_id FROM _city n JOIN organization_activity_city l ON l.city_id = n.id WHERE l.organization_activity_id = $1 ORDER BY n.id",
		sql)
}

func TestEveryRelationHasLink(t *testing.T) {
	for _, rel := range []organization.Relation{
		organization.RelationDomains,
		organization.RelationRegions,
		organization.RelationCities,
		organization.RelationFederations,
		organization.RelationCoalitions,
	} {
		_, ok := links[rel]
		assert.True(t, ok, rel)
	}
}

func TestUpdateQuery_KeepsIdentityAndCreation(t *testing.T) {
	tbl := newTable[organization.Legal](nil, "organization_legal")
	l := &organization.Legal{ID: id.New(), CreatedAt: time.Now()}

	sql, args, err := tbl.updateQuery(l, l.ID).ToSql()

	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE organization_legal SET legal_representative_id = $1, other_info = $2, updated_at = now() WHERE id = $3",
		sql)
	assert.Equal(t, l.ID.String(), args[2])
}

func TestInsertQuery_StampsTimestamps(t *testing.T) {
	tbl := newTable[organization.Report](nil, "organization_report")
	rep := &organization.Report{ID: id.New()}

	sql, args, err := tbl.insertQuery(rep).ToSql()

	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO organization_report (created_at,id,updated_at) VALUES ($1,$2,$3)", sql)
	created, ok := args[0].(time.Time)
	require.True(t, ok)
	assert.False(t, created.IsZero())
}

func TestContactQueries(t *testing.T) {
	repo := NewContactRepo(nil)
	legalID := id.New()

	sql, _, err := repo.saveQuery(&organization.Contact{ID: id.New(), FullName: "Ana"}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO contact")
	assert.Contains(t, sql, "ON CONFLICT (id) DO UPDATE SET")
	assert.Contains(t, sql, "WHERE contact.organization_legal_id IS NOT DISTINCT FROM EXCLUDED.organization_legal_id")
	assert.NotContains(t, sql, "organization_legal_id = EXCLUDED.organization_legal_id")

	d1, d2 := id.New(), id.New()
	sql, args, err := repo.deleteDirectorsQuery(legalID, []id.ID{d1, d2}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM contact WHERE organization_legal_id = $1 AND id IN ($2,$3)", sql)
	assert.Len(t, args, 3)
}

func TestFinancialBatchQuery(t *testing.T) {
	repo := NewFinancialRepo(nil)
	orgID := id.New()
	rows := []organization.Financial{
		{ID: id.New(), OrganizationID: orgID, Type: organization.FinancialExpense, Year: 2025, Total: types.NewMoneyFromInt(40)},
		{ID: id.New(), OrganizationID: orgID, Type: organization.FinancialIncome, Year: 2025, Total: types.NewMoneyFromInt(100)},
	}

	sql, args, err := repo.batchQuery(rows).ToSql()

	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO organization_financial (id,organization_id,type,year,total,number_of_employees,status,created_at,updated_at)")
	assert.Len(t, args, 2*len(repo.t.cols))
}

func TestFacetError(t *testing.T) {
	orgID := id.New()

	missing := facetError(orgID, "legal", apperror.NewNotFound("organization_legal", "x"))
	assert.False(t, apperror.IsNotFound(missing))
	assert.Equal(t, 500, apperror.GetHTTPStatus(missing))
	assert.Empty(t, apperror.ErrorCodeOf(missing))
	assert.Contains(t, missing.Error(), "has no legal row")

	boom := errors.New("conn reset")
	other := facetError(orgID, "report", boom)
	assert.ErrorIs(t, other, boom)
	assert.Contains(t, other.Error(), "load report")
}
