// Package feedback collects citizen feedback for civic-center services.
package feedback

import (
	"context"
	"time"

	"onghub/internal/core/id"
	"onghub/internal/domain"
)

// Feedback is one rating left for a civic-center service.
type Feedback struct {
	ID                   id.ID     `db:"id" json:"id"`
	CivicCenterServiceID id.ID     `db:"civic_center_service_id" json:"civicCenterServiceId"`
	FullName             string    `db:"full_name" json:"fullName"`
	InteractionDate      time.Time `db:"interaction_date" json:"interactionDate"`
	Message              string    `db:"message" json:"message"`
	Rating               int       `db:"rating" json:"rating"`
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`
}

// CreateInput is the payload for leaving feedback.
type CreateInput struct {
	CivicCenterServiceID id.ID     `json:"civicCenterServiceId"`
	FullName             string    `json:"fullName"`
	InteractionDate      time.Time `json:"interactionDate"`
	Message              string    `json:"message"`
	Rating               int       `json:"rating"`
}

// Repository persists feedback.
type Repository interface {
	ServiceExists(ctx context.Context, serviceID id.ID) (bool, error)
	Create(ctx context.Context, f *Feedback) error
	GetByID(ctx context.Context, feedbackID id.ID) (*Feedback, error)

	// ListByOrganization pages through feedback left for any service of orgID.
	ListByOrganization(ctx context.Context, orgID id.ID, filter domain.ListFilter) (domain.ListResult[Feedback], error)
	Delete(ctx context.Context, feedbackID id.ID) error
}
