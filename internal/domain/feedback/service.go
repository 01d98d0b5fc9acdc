package feedback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"onghub/internal/core/apperror"
	"onghub/internal/core/id"
	"onghub/internal/domain"
)

// Stable error codes.
const (
	ErrCodeNotFound      = "FDB_001"
	ErrCodeInvalidRating = "FDB_002"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Service manages civic-center feedback.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a feedback service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create stores feedback for an existing civic-center service.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Feedback, error) {
	if in.Rating < MinRating || in.Rating > MaxRating {
		return nil, apperror.NewValidation("rating must be between 1 and 5").
			WithErrorCode(ErrCodeInvalidRating).
			WithDetail("field", "rating").
			WithDetail("value", in.Rating)
	}
	if strings.TrimSpace(in.FullName) == "" {
		return nil, apperror.NewValidation("fullName is required").WithDetail("field", "fullName")
	}

	ok, err := s.repo.ServiceExists(ctx, in.CivicCenterServiceID)
	if err != nil {
		return nil, fmt.Errorf("check civic center service: %w", err)
	}
	if !ok {
		return nil, apperror.NewNotFound("civic_center_service", in.CivicCenterServiceID.String())
	}

	f := &Feedback{
		ID:                   id.New(),
		CivicCenterServiceID: in.CivicCenterServiceID,
		FullName:             in.FullName,
		InteractionDate:      in.InteractionDate,
		Message:              in.Message,
		Rating:               in.Rating,
		CreatedAt:            s.now(),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return f, nil
}

// FindManyPaginated lists feedback left for the services of one organization.
func (s *Service) FindManyPaginated(ctx context.Context, orgID id.ID, filter domain.ListFilter) (domain.ListResult[Feedback], error) {
	res, err := s.repo.ListByOrganization(ctx, orgID, filter.Normalize())
	if err != nil {
		return domain.ListResult[Feedback]{}, fmt.Errorf("list feedback: %w", err)
	}
	return res, nil
}

// FindOne returns one feedback entry.
func (s *Service) FindOne(ctx context.Context, feedbackID id.ID) (*Feedback, error) {
	f, err := s.repo.GetByID(ctx, feedbackID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("feedback", feedbackID.String()).WithErrorCode(ErrCodeNotFound)
		}
		return nil, fmt.Errorf("get feedback %s: %w", feedbackID, err)
	}
	return f, nil
}

// Remove deletes one feedback entry.
func (s *Service) Remove(ctx context.Context, feedbackID id.ID) error {
	if _, err := s.FindOne(ctx, feedbackID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, feedbackID); err != nil {
		return fmt.Errorf("delete feedback %s: %w", feedbackID, err)
	}
	return nil
}
