package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"onghub/internal/core/apperror"
	"onghub/internal/core/id"
	"onghub/internal/core/tx"
	"onghub/internal/domain"
	"onghub/pkg/logger"
)

// Stable error codes.
const (
	ErrCodeMissingLoginLink  = "APP_001"
	ErrCodeNotFound          = "APP_002"
	ErrCodeOngAppNotFound    = "ONG_APP_002"
	ErrCodeInvalidTransition = "ONG_APP_004"
)

// Service manages the application catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	now       func() time.Time
}

// NewService creates an application service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager, now: time.Now}
}

func errNotFound(appID id.ID) error {
	return apperror.NewNotFound("application", appID.String()).WithErrorCode(ErrCodeNotFound)
}

func (s *Service) get(ctx context.Context, appID id.ID) (*Application, error) {
	app, err := s.repo.GetByID(ctx, appID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, errNotFound(appID)
		}
		return nil, fmt.Errorf("get application %s: %w", appID, err)
	}
	return app, nil
}

// Create adds an application. Every type except INDEPENDENT needs a login link.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Application, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if !in.Type.IsValid() {
		return nil, apperror.NewValidation("invalid application type").
			WithDetail("field", "type").
			WithDetail("value", string(in.Type))
	}
	if in.Type != TypeIndependent && (in.LoginLink == nil || strings.TrimSpace(*in.LoginLink) == "") {
		return nil, apperror.NewValidation("Missing Login link").
			WithErrorCode(ErrCodeMissingLoginLink).
			WithDetail("field", "loginLink")
	}

	now := s.now()
	app := &Application{
		ID:               id.New(),
		Name:             in.Name,
		Type:             in.Type,
		Steps:            in.Steps,
		ShortDescription: in.ShortDescription,
		Description:      in.Description,
		LoginLink:        in.LoginLink,
		Website:          in.Website,
		VideoLink:        in.VideoLink,
		Logo:             in.Logo,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if app.Steps == nil {
		app.Steps = []string{}
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	logger.Info(ctx, "application created", "application_id", app.ID, "type", app.Type)
	return app, nil
}

// FindOne returns a catalog entry.
func (s *Service) FindOne(ctx context.Context, appID id.ID) (*Application, error) {
	return s.get(ctx, appID)
}

// FindAll returns a page of the catalog.
func (s *Service) FindAll(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Application], error) {
	filter = filter.Normalize()
	res, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.ListResult[Application]{}, fmt.Errorf("list applications: %w", err)
	}
	return res, nil
}

// Update merges patch into an existing application.
func (s *Service) Update(ctx context.Context, appID id.ID, patch UpdatePatch) (*Application, error) {
	var out *Application
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		app, err := s.get(ctx, appID)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			app.Name = *patch.Name
		}
		if patch.Steps != nil {
			app.Steps = patch.Steps
		}
		if patch.ShortDescription != nil {
			app.ShortDescription = *patch.ShortDescription
		}
		if patch.Description != nil {
			app.Description = *patch.Description
		}
		if patch.LoginLink != nil {
			app.LoginLink = patch.LoginLink
		}
		if patch.Website != nil {
			app.Website = *patch.Website
		}
		if patch.VideoLink != nil {
			app.VideoLink = patch.VideoLink
		}
		if patch.Logo != nil {
			app.Logo = *patch.Logo
		}
		app.UpdatedAt = s.now()

		if err := s.repo.Update(ctx, app); err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		out = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete is not supported for catalog entries.
func (s *Service) Delete(ctx context.Context, appID id.ID) error {
	return apperror.NewNotImplemented("application deletion is not supported").WithDetail("id", appID.String())
}

// FindAllForOng returns the catalog with the organization's request status.
func (s *Service) FindAllForOng(ctx context.Context, orgID id.ID) ([]WithOngStatus, error) {
	items, err := s.repo.ListForOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list applications for organization: %w", err)
	}
	return items, nil
}

// FindOneForOng returns one catalog entry with the organization's request status.
func (s *Service) FindOneForOng(ctx context.Context, orgID, appID id.ID) (*WithOngStatus, error) {
	item, err := s.repo.GetForOrganization(ctx, orgID, appID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, errNotFound(appID)
		}
		return nil, fmt.Errorf("get application for organization: %w", err)
	}
	return item, nil
}

// RequestAccess records a PENDING request. An existing request is returned unchanged.
func (s *Service) RequestAccess(ctx context.Context, orgID, appID id.ID) (*OngApplication, error) {
	var out *OngApplication
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.get(ctx, appID); err != nil {
			return err
		}

		existing, err := s.repo.GetOngApplication(ctx, orgID, appID)
		if err == nil {
			out = existing
			return nil
		}
		if !apperror.IsNotFound(err) {
			return fmt.Errorf("get organization application: %w", err)
		}

		now := s.now()
		oa := &OngApplication{
			ID:             id.New(),
			OrganizationID: orgID,
			ApplicationID:  appID,
			Status:         StatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.repo.CreateOngApplication(ctx, oa); err != nil {
			return fmt.Errorf("create organization application: %w", err)
		}
		out = oa
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus moves an organization's request to status if the transition is allowed.
func (s *Service) SetStatus(ctx context.Context, orgID, appID id.ID, status Status) (*OngApplication, error) {
	if !status.IsValid() {
		return nil, apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(status))
	}

	var out *OngApplication
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		oa, err := s.repo.GetOngApplication(ctx, orgID, appID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("ong_application", appID.String()).WithErrorCode(ErrCodeOngAppNotFound)
			}
			return fmt.Errorf("get organization application: %w", err)
		}

		if !oa.Status.CanTransition(status) {
			return apperror.NewBusinessRule(ErrCodeInvalidTransition,
				fmt.Sprintf("cannot change status from %s to %s", oa.Status, status))
		}

		oa.Status = status
		oa.UpdatedAt = s.now()
		if err := s.repo.UpdateOngApplication(ctx, oa); err != nil {
			return fmt.Errorf("update organization application: %w", err)
		}
		out = oa
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "organization application status changed",
		"organization_id", orgID, "application_id", appID, "status", status)
	return out, nil
}
