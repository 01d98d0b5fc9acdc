package application

import (
	"context"

	"onghub/internal/core/id"
	"onghub/internal/domain"
)

// Repository persists applications and organization access requests.
type Repository interface {
	Create(ctx context.Context, app *Application) error
	Update(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, appID id.ID) (*Application, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Application], error)

	// ListForOrganization returns the whole catalog left-joined with the
	// organization's request status.
	ListForOrganization(ctx context.Context, orgID id.ID) ([]WithOngStatus, error)
	GetForOrganization(ctx context.Context, orgID, appID id.ID) (*WithOngStatus, error)

	GetOngApplication(ctx context.Context, orgID, appID id.ID) (*OngApplication, error)
	CreateOngApplication(ctx context.Context, oa *OngApplication) error
	UpdateOngApplication(ctx context.Context, oa *OngApplication) error
}
