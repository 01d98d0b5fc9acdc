package feedback_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onghub/internal/core/id"
	"onghub/internal/domain"
)

func TestByOrganizationQuery(t *testing.T) {
	orgID := id.New()

	sql, args, err := byOrganizationQuery(orgID, domain.ListFilter{Search: "rapid"}).ToSql()

	require.NoError(t, err)
	assert.Contains(t, sql, "FROM feedback f JOIN civic_center_service s ON s.id = f.civic_center_service_id")
	assert.Contains(t, sql, "WHERE s.organization_id = $1 AND f.message ILIKE $2")
	assert.Equal(t, []any{orgID.String(), "%rapid%"}, args)
}
