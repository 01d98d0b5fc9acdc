package dto

import (
	"onghub/internal/domain/application"
)

// SetOngApplicationStatusRequest is the body of
// PATCH /organizations/:id/applications/:appId/status.
type SetOngApplicationStatusRequest struct {
	Status application.Status `json:"status" binding:"required"`
}

// CitiesQuery filters GET /nomenclatures/cities.
type CitiesQuery struct {
	CountyID *int   `form:"countyId" binding:"omitempty,min=1"`
	Search   string `form:"search"`
}
