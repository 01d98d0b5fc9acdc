package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "onghub/internal/core/context"
	"onghub/internal/core/id"
	"onghub/internal/domain/application"
	"onghub/internal/domain/organization"
	"onghub/internal/infrastructure/http/v1/handlers"
)

const (
	tokenSuper    = "super"
	tokenAdmin    = "admin"
	tokenEmployee = "employee"
	tokenNoOrg    = "no-org"
)

type testEnv struct {
	router *gin.Engine
	orgs   *fakeOrganizations
	apps   *fakeApplications
	fb     *fakeFeedback
	noms   *fakeNomenclature
	orgID  id.ID
}

func newTestEnv(t *testing.T, checks ...handlers.HealthCheck) *testEnv {
	t.Helper()

	orgID := id.New()
	env := &testEnv{
		orgs:  &fakeOrganizations{orgs: map[id.ID]*organization.Organization{orgID: {ID: orgID}}},
		apps:  &fakeApplications{apps: map[id.ID]*application.Application{}},
		fb:    &fakeFeedback{},
		noms:  &fakeNomenclature{},
		orgID: orgID,
	}
	tokens := staticTokens{
		tokenSuper:    {UserID: "u-super", Role: appctx.RoleSuperAdmin},
		tokenAdmin:    {UserID: "u-admin", Role: appctx.RoleAdmin, OrganizationID: orgID.String()},
		tokenEmployee: {UserID: "u-emp", Role: appctx.RoleEmployee, OrganizationID: orgID.String()},
		tokenNoOrg:    {UserID: "u-none", Role: appctx.RoleAdmin},
	}
	env.router = NewRouter(RouterConfig{
		Mode:           gin.TestMode,
		TokenValidator: tokens,
		Organizations:  env.orgs,
		Applications:   env.apps,
		Feedback:       env.fb,
		Nomenclature:   env.noms,
		HealthChecks:   checks,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestRouter_HealthAndVersion(t *testing.T) {
	env := newTestEnv(t,
		handlers.HealthCheck{Name: "database", Pinger: pinger{}},
	)

	w := env.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = env.do(t, http.MethodGet, "/version", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v0.0.2", w.Body.String())

	w = env.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["checks"].(map[string]any)["database"])

	w = env.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "onghub_http_requests_total")
}

func TestRouter_ReadyReportsFailingDependency(t *testing.T) {
	env := newTestEnv(t,
		handlers.HealthCheck{Name: "database", Pinger: pinger{}},
		handlers.HealthCheck{Name: "redis", Pinger: pinger{err: errors.New("dial tcp: refused")}},
	)

	w := env.do(t, http.MethodGet, "/health/ready", "", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["checks"].(map[string]any)["redis"], "unhealthy")
}

func TestRouter_Auth(t *testing.T) {
	env := newTestEnv(t)
	path := "/api/v1/organizations/" + env.orgID.String()

	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "bad scheme", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "unknown token", token: "nope", want: http.StatusUnauthorized},
		{name: "other organization", token: tokenNoOrg, want: http.StatusForbidden},
		{name: "own organization", token: tokenEmployee, want: http.StatusOK},
		{name: "super admin", token: tokenSuper, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			switch {
			case tt.header != "":
				req.Header.Set("Authorization", tt.header)
			case tt.token != "":
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRouter_CreateOrganizationRequiresSuperAdmin(t *testing.T) {
	env := newTestEnv(t)
	body := `{"general":{"name":"Asociatia","cui":"123"},"activity":{"area":"NATIONAL"},"legal":{}}`

	w := env.do(t, http.MethodPost, "/api/v1/organizations", tokenAdmin, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/organizations", tokenSuper, body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, env.orgs.created)
	assert.Equal(t, "Asociatia", env.orgs.created.General.Name)
	assert.Equal(t, organization.AreaNational, env.orgs.created.Activity.Area)
}

func TestRouter_PatchOrganization(t *testing.T) {
	env := newTestEnv(t)
	path := "/api/v1/organizations/" + env.orgID.String()

	t.Run("single facet dispatched", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, path, tokenAdmin, `{"general":{"name":"patched"}}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode(t, w)
		assert.Equal(t, "general", body["facet"])
		assert.Equal(t, "patched", body["data"].(map[string]any)["name"])
		require.IsType(t, organization.GeneralPatch{}, env.orgs.patched)
	})

	t.Run("two facets rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, path, tokenAdmin, `{"general":{"name":"x"},"legal":{"otherInfo":"y"}}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, w)["code"])
	})

	t.Run("no facet answers null", func(t *testing.T) {
		env.orgs.patched = organization.GeneralPatch{}
		w := env.do(t, http.MethodPatch, path, tokenAdmin, `{}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `null`, w.Body.String())
		assert.Nil(t, env.orgs.patched)
	})

	t.Run("no facet on unknown organization", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/api/v1/organizations/"+id.New().String(), tokenSuper, `{}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, organization.ErrCodeUpdateNotFound, decode(t, w)["errorCode"])
	})

	t.Run("domain error code rendered", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, path, tokenAdmin, `{"legal":{"directors":[{"fullName":"A"}]}}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, organization.ErrCodeDirectorsMinimum, decode(t, w)["errorCode"])
	})

	t.Run("unknown organization", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/api/v1/organizations/"+id.New().String(), tokenSuper, `{"report":{}}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, organization.ErrCodeUpdateNotFound, decode(t, w)["errorCode"])
	})

	t.Run("employee may not patch", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, path, tokenEmployee, `{"general":{"name":"x"}}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/api/v1/organizations/not-a-uuid", tokenSuper, `{"general":{}}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_GetOrganizationNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/organizations/"+id.New().String(), tokenSuper, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, organization.ErrCodeNotFound, body["errorCode"])
}

func TestRouter_Profile(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/organization-profile", tokenEmployee, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, env.orgID.String(), decode(t, w)["id"])

	w = env.do(t, http.MethodGet, "/api/v1/organization-profile", tokenNoOrg, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPatch, "/api/v1/organization-profile", tokenAdmin, `{"financial":{"id":"`+id.New().String()+`"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.IsType(t, organization.FinancialPatch{}, env.orgs.patched)
}

func TestRouter_History(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/organizations/"+env.orgID.String()+"/history?limit=10", tokenAdmin, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var entries []organization.HistoryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, organization.ActionCreate, entries[0].Action)

	w = env.do(t, http.MethodGet, "/api/v1/organizations/"+env.orgID.String()+"/history?limit=1000", tokenAdmin, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Nomenclatures(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/nomenclatures/counties", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Cluj","abbreviation":""}]`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/nomenclatures/cities?countyId=12&search=cluj", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	require.NotNil(t, env.noms.countyID)
	assert.Equal(t, 12, *env.noms.countyID)
	assert.Equal(t, "cluj", env.noms.search)

	w = env.do(t, http.MethodGet, "/api/v1/nomenclatures/regions", "", "")
	assert.JSONEq(t, `[]`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/nomenclatures/coalitions", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decode(t, w)["code"])
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestRouter_Applications(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/applications", tokenSuper, `{"name":"Vot","type":"SIMPLE"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, application.ErrCodeMissingLoginLink, decode(t, w)["errorCode"])

	w = env.do(t, http.MethodPost, "/api/v1/applications", tokenSuper, `{"name":"Vot","type":"INDEPENDENT"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	appID := decode(t, w)["id"].(string)

	w = env.do(t, http.MethodGet, "/api/v1/applications?limit=5", tokenEmployee, "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.EqualValues(t, 1, page["totalCount"])
	assert.EqualValues(t, 5, page["limit"])

	w = env.do(t, http.MethodGet, "/api/v1/applications/"+id.New().String(), tokenEmployee, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, application.ErrCodeNotFound, decode(t, w)["errorCode"])

	base := "/api/v1/organizations/" + env.orgID.String() + "/applications"

	w = env.do(t, http.MethodGet, base, tokenEmployee, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = env.do(t, http.MethodPost, base+"/"+appID+"/request", tokenAdmin, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "PENDING", decode(t, w)["status"])

	w = env.do(t, http.MethodPatch, base+"/"+appID+"/status", tokenAdmin, `{"status":"ACTIVE"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPatch, base+"/"+appID+"/status", tokenSuper, `{"status":"PENDING"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, application.ErrCodeInvalidTransition, decode(t, w)["errorCode"])

	w = env.do(t, http.MethodPatch, base+"/"+appID+"/status", tokenSuper, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Feedback(t *testing.T) {
	env := newTestEnv(t)
	body := `{"civicCenterServiceId":"` + id.New().String() + `","fullName":"Ion","interactionDate":"2026-05-01T00:00:00Z","rating":%s}`

	w := env.do(t, http.MethodPost, "/api/v1/feedback", "", strings.Replace(body, "%s", "6", 1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "FDB_002", decode(t, w)["errorCode"])

	w = env.do(t, http.MethodPost, "/api/v1/feedback", "", strings.Replace(body, "%s", "5", 1))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/organizations/"+env.orgID.String()+"/feedback", tokenEmployee, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"totalCount":0,"limit":20,"offset":0}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/feedback/"+id.New().String(), tokenAdmin, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "FDB_001", decode(t, w)["errorCode"])

	target := id.New()
	w = env.do(t, http.MethodDelete, "/api/v1/feedback/"+target.String(), tokenEmployee, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/feedback/"+target.String(), tokenAdmin, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []id.ID{target}, env.fb.removed)
}
