package dto

import (
	"onghub/internal/core/apperror"
	"onghub/internal/domain/organization"
)

// CreateOrganizationRequest is the body of POST /organizations.
type CreateOrganizationRequest struct {
	General  organization.GeneralInput  `json:"general"`
	Activity organization.ActivityInput `json:"activity"`
	Legal    organization.LegalInput    `json:"legal"`
}

// ToInput converts the request into the service input.
func (r CreateOrganizationRequest) ToInput() organization.CreateInput {
	return organization.CreateInput{
		General:  r.General,
		Activity: r.Activity,
		Legal:    r.Legal,
	}
}

// UpdateOrganizationRequest is the body of PATCH /organizations/:id. Exactly
// one facet must be present.
type UpdateOrganizationRequest struct {
	General   *organization.GeneralPatch   `json:"general,omitempty"`
	Activity  *organization.ActivityPatch  `json:"activity,omitempty"`
	Legal     *organization.LegalPatch     `json:"legal,omitempty"`
	Financial *organization.FinancialPatch `json:"financial,omitempty"`
	Report    *organization.ReportPatch    `json:"report,omitempty"`
}

// ToPatch returns the single facet patch carried by the request, or nil when
// the body names no facet. More than one facet is a validation error.
func (r UpdateOrganizationRequest) ToPatch() (organization.Patch, error) {
	var (
		patch organization.Patch
		set   []string
	)
	if r.General != nil {
		patch, set = *r.General, append(set, "general")
	}
	if r.Activity != nil {
		patch, set = *r.Activity, append(set, "activity")
	}
	if r.Legal != nil {
		patch, set = *r.Legal, append(set, "legal")
	}
	if r.Financial != nil {
		patch, set = *r.Financial, append(set, "financial")
	}
	if r.Report != nil {
		patch, set = *r.Report, append(set, "report")
	}

	switch len(set) {
	case 0, 1:
		return patch, nil
	default:
		return nil, apperror.NewValidation("request must contain exactly one facet").
			WithDetail("facets", set)
	}
}

// UpdateResponse is the body of a successful PATCH: the updated facet.
type UpdateResponse struct {
	Facet organization.Facet `json:"facet"`
	Data  any                `json:"data"`
}

// NewUpdateResponse wraps an update result. A nil result yields nil.
func NewUpdateResponse(res *organization.UpdateResult) *UpdateResponse {
	if res == nil {
		return nil
	}
	return &UpdateResponse{Facet: res.Facet, Data: res.Value()}
}

// HistoryQuery is the query string of GET /organizations/:id/history.
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
