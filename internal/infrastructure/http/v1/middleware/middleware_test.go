package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onghub/internal/core/apperror"
	appctx "onghub/internal/core/context"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	}
	return w, body
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantCode      string
		wantErrorCode any
	}{
		{
			name:          "domain code",
			err:           apperror.NewValidation("missing region").WithErrorCode("ORG_003"),
			wantStatus:    http.StatusBadRequest,
			wantCode:      apperror.CodeValidation,
			wantErrorCode: "ORG_003",
		},
		{
			name:       "app error without domain code",
			err:        apperror.NewConflict("organization already exists"),
			wantStatus: http.StatusConflict,
			wantCode:   apperror.CodeConflict,
		},
		{
			name:       "plain error hidden",
			err:        errors.New("registry unavailable: status 503"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   apperror.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(Trace(), ErrorHandler())
			r.GET("/", func(c *gin.Context) { _ = c.Error(tt.err) })

			w, body := serve(t, r, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, tt.wantErrorCode, body["errorCode"])
			assert.NotContains(t, w.Body.String(), "registry unavailable")
		})
	}
}

func TestErrorHandler_KeepsWrittenResponse(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusAccepted, "done")
		_ = c.Error(errors.New("late failure"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "done", w.Body.String())
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(), Trace(), ErrorHandler())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	w, body := serve(t, r, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestTrace_PropagatesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(Trace())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, appctx.GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(HeaderTraceID))
}

type tokens map[string]*appctx.UserContext

func (t tokens) ValidateToken(s string) (*appctx.UserContext, error) {
	if u, ok := t[s]; ok {
		return u, nil
	}
	return nil, errors.New("bad token")
}

func TestAuthAndRoles(t *testing.T) {
	validator := tokens{
		"admin": {UserID: "1", Role: appctx.RoleAdmin, OrganizationID: "org-1"},
		"emp":   {UserID: "2", Role: appctx.RoleEmployee, OrganizationID: "org-1"},
	}

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/orgs/:org",
		Auth(validator),
		RequireRole(appctx.RoleAdmin, appctx.RoleSuperAdmin),
		RequireOrgAccess("org"),
		func(c *gin.Context) { c.String(http.StatusOK, appctx.GetUserID(c.Request.Context())) },
	)
	r.GET("/open", RequireRole(appctx.RoleAdmin), func(c *gin.Context) {})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "admin own org", path: "/orgs/org-1", header: "Bearer admin", want: http.StatusOK},
		{name: "lowercase scheme", path: "/orgs/org-1", header: "bearer admin", want: http.StatusOK},
		{name: "admin other org", path: "/orgs/org-2", header: "Bearer admin", want: http.StatusForbidden},
		{name: "employee", path: "/orgs/org-1", header: "Bearer emp", want: http.StatusForbidden},
		{name: "invalid token", path: "/orgs/org-1", header: "Bearer x", want: http.StatusUnauthorized},
		{name: "no auth middleware", path: "/open", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}
