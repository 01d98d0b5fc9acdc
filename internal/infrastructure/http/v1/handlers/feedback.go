package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"onghub/internal/core/id"
	"onghub/internal/domain"
	"onghub/internal/domain/feedback"
	"onghub/internal/infrastructure/http/v1/dto"
)

// FeedbackService is the subset of feedback.Service used over HTTP.
type FeedbackService interface {
	Create(ctx context.Context, in feedback.CreateInput) (*feedback.Feedback, error)
	FindManyPaginated(ctx context.Context, orgID id.ID, filter domain.ListFilter) (domain.ListResult[feedback.Feedback], error)
	FindOne(ctx context.Context, feedbackID id.ID) (*feedback.Feedback, error)
	Remove(ctx context.Context, feedbackID id.ID) error
}

// FeedbackHandler serves civic-center feedback.
type FeedbackHandler struct {
	*BaseHandler
	service FeedbackService
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(service FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Create handles POST /feedback.
func (h *FeedbackHandler) Create(c *gin.Context) {
	var in feedback.CreateInput
	if !h.BindJSON(c, &in) {
		return
	}

	f, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, f)
}

// ListForOrganization handles GET /organizations/:id/feedback.
func (h *FeedbackHandler) ListForOrganization(c *gin.Context) {
	orgID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	page, err := h.service.FindManyPaginated(c.Request.Context(), orgID, q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(page))
}

// Get handles GET /feedback/:id.
func (h *FeedbackHandler) Get(c *gin.Context) {
	feedbackID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	f, err := h.service.FindOne(c.Request.Context(), feedbackID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, f)
}

// Delete handles DELETE /feedback/:id.
func (h *FeedbackHandler) Delete(c *gin.Context) {
	feedbackID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), feedbackID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
