package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"onghub/internal/core/apperror"
	appctx "onghub/internal/core/context"
	"onghub/internal/core/id"
	"onghub/internal/domain/organization"
	"onghub/internal/infrastructure/http/v1/dto"
)

// OrganizationService is the subset of organization.Service used over HTTP.
type OrganizationService interface {
	Create(ctx context.Context, in organization.CreateInput) (*organization.Organization, error)
	FindOne(ctx context.Context, orgID id.ID) (*organization.Organization, error)
	Update(ctx context.Context, orgID id.ID, patch organization.Patch) (*organization.UpdateResult, error)
	History(ctx context.Context, orgID id.ID, limit int) ([]organization.HistoryEntry, error)
}

// OrganizationHandler serves /organizations and /organization-profile.
type OrganizationHandler struct {
	*BaseHandler
	service OrganizationService
}

// NewOrganizationHandler creates a new organization handler.
func NewOrganizationHandler(service OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Create handles POST /organizations.
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req dto.CreateOrganizationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	org, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, org)
}

// Get handles GET /organizations/:id.
func (h *OrganizationHandler) Get(c *gin.Context) {
	orgID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	h.get(c, orgID)
}

// Update handles PATCH /organizations/:id.
func (h *OrganizationHandler) Update(c *gin.Context) {
	orgID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	h.update(c, orgID)
}

// History handles GET /organizations/:id/history.
func (h *OrganizationHandler) History(c *gin.Context) {
	orgID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var q dto.HistoryQuery
	if !h.BindQuery(c, &q) {
		return
	}

	entries, err := h.service.History(c.Request.Context(), orgID, q.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entries)
}

// GetProfile handles GET /organization-profile for the caller's organization.
func (h *OrganizationHandler) GetProfile(c *gin.Context) {
	orgID, ok := h.callerOrganization(c)
	if !ok {
		return
	}
	h.get(c, orgID)
}

// UpdateProfile handles PATCH /organization-profile.
func (h *OrganizationHandler) UpdateProfile(c *gin.Context) {
	orgID, ok := h.callerOrganization(c)
	if !ok {
		return
	}
	h.update(c, orgID)
}

func (h *OrganizationHandler) get(c *gin.Context, orgID id.ID) {
	org, err := h.service.FindOne(c.Request.Context(), orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, org)
}

func (h *OrganizationHandler) update(c *gin.Context, orgID id.ID) {
	var req dto.UpdateOrganizationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.service.Update(c.Request.Context(), orgID, patch)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewUpdateResponse(res))
}

func (h *OrganizationHandler) callerOrganization(c *gin.Context) (id.ID, bool) {
	raw := appctx.GetOrganizationID(c.Request.Context())
	if raw == "" {
		h.Error(c, apperror.NewForbidden("token is not bound to an organization"))
		return id.Nil(), false
	}
	orgID, err := id.Parse(raw)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("invalid organization claim"))
		return id.Nil(), false
	}
	return orgID, true
}
