package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"onghub/internal/core/id"
	"onghub/internal/domain"
	"onghub/internal/domain/application"
	"onghub/internal/infrastructure/http/v1/dto"
)

// ApplicationService is the subset of application.Service used over HTTP.
type ApplicationService interface {
	Create(ctx context.Context, in application.CreateInput) (*application.Application, error)
	FindOne(ctx context.Context, appID id.ID) (*application.Application, error)
	FindAll(ctx context.Context, filter domain.ListFilter) (domain.ListResult[application.Application], error)
	Update(ctx context.Context, appID id.ID, patch application.UpdatePatch) (*application.Application, error)
	FindAllForOng(ctx context.Context, orgID id.ID) ([]application.WithOngStatus, error)
	FindOneForOng(ctx context.Context, orgID, appID id.ID) (*application.WithOngStatus, error)
	RequestAccess(ctx context.Context, orgID, appID id.ID) (*application.OngApplication, error)
	SetStatus(ctx context.Context, orgID, appID id.ID, status application.Status) (*application.OngApplication, error)
}

// ApplicationHandler serves the application catalog and per-organization
// access.
type ApplicationHandler struct {
	*BaseHandler
	service ApplicationService
}

// NewApplicationHandler creates a new application handler.
func NewApplicationHandler(service ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Create handles POST /applications.
func (h *ApplicationHandler) Create(c *gin.Context) {
	var in application.CreateInput
	if !h.BindJSON(c, &in) {
		return
	}

	app, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, app)
}

// List handles GET /applications.
func (h *ApplicationHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	page, err := h.service.FindAll(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(page))
}

// Get handles GET /applications/:id.
func (h *ApplicationHandler) Get(c *gin.Context) {
	appID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	app, err := h.service.FindOne(c.Request.Context(), appID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, app)
}

// Update handles PATCH /applications/:id.
func (h *ApplicationHandler) Update(c *gin.Context) {
	appID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var patch application.UpdatePatch
	if !h.BindJSON(c, &patch) {
		return
	}

	app, err := h.service.Update(c.Request.Context(), appID, patch)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, app)
}

// ListForOrganization handles GET /organizations/:id/applications.
func (h *ApplicationHandler) ListForOrganization(c *gin.Context) {
	orgID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	apps, err := h.service.FindAllForOng(c.Request.Context(), orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if apps == nil {
		apps = []application.WithOngStatus{}
	}
	h.OK(c, apps)
}

// GetForOrganization handles GET /organizations/:id/applications/:appId.
func (h *ApplicationHandler) GetForOrganization(c *gin.Context) {
	orgID, appID, ok := h.orgAndApp(c)
	if !ok {
		return
	}

	app, err := h.service.FindOneForOng(c.Request.Context(), orgID, appID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, app)
}

// RequestAccess handles POST /organizations/:id/applications/:appId/request.
func (h *ApplicationHandler) RequestAccess(c *gin.Context) {
	orgID, appID, ok := h.orgAndApp(c)
	if !ok {
		return
	}

	oa, err := h.service.RequestAccess(c.Request.Context(), orgID, appID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, oa)
}

// SetStatus handles PATCH /organizations/:id/applications/:appId/status.
func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	orgID, appID, ok := h.orgAndApp(c)
	if !ok {
		return
	}
	var req dto.SetOngApplicationStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	oa, err := h.service.SetStatus(c.Request.Context(), orgID, appID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, oa)
}

func (h *ApplicationHandler) orgAndApp(c *gin.Context) (id.ID, id.ID, bool) {
	orgID, ok := h.ParamID(c, "id")
	if !ok {
		return id.Nil(), id.Nil(), false
	}
	appID, ok := h.ParamID(c, "appId")
	if !ok {
		return id.Nil(), id.Nil(), false
	}
	return orgID, appID, true
}
