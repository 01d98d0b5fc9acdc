package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestObserveHTTPRequest(t *testing.T) {
	ObserveHTTPRequest("GET", "/api/v1/nomenclatures/counties", "200", 15*time.Millisecond)

	body := scrape(t)
	assert.Contains(t, body, `onghub_http_requests_total{method="GET",path="/api/v1/nomenclatures/counties",status="200"}`)
	assert.Contains(t, body, "onghub_http_request_duration_seconds_bucket")
}

func TestCreateObserver(t *testing.T) {
	CreateObserver{}.ObserveOrganizationCreate("error", 0.2)

	assert.Contains(t, scrape(t), `onghub_organization_create_duration_seconds_count{result="error"}`)
}
