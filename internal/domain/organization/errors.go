package organization

import (
	"onghub/internal/core/apperror"
	"onghub/internal/core/id"
)

// Stable error codes returned to API clients.
const (
	ErrCodeNotFound         = "ORG_001"
	ErrCodeUpdateNotFound   = "ORG_002"
	ErrCodeMissingRegion    = "ORG_003"
	ErrCodeMissingCity      = "ORG_004"
	ErrCodeDirectorsMinimum = "ORG_005"
	ErrCodeRowNotFound      = "ORG_006"
)

// MinDirectors is the smallest board accepted on a legal update.
const MinDirectors = 3

// History page size bounds.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
)

func errOrganizationNotFound(orgID id.ID) error {
	return apperror.NewNotFound("organization", orgID.String()).WithErrorCode(ErrCodeNotFound)
}

func errUpdateTargetNotFound(orgID id.ID) error {
	return apperror.NewNotFound("organization", orgID.String()).WithErrorCode(ErrCodeUpdateNotFound)
}

func errMissingRegion() error {
	return apperror.NewValidation("at least one region is required for a regional organization").
		WithErrorCode(ErrCodeMissingRegion).
		WithDetail("field", "activity.regions")
}

func errMissingCity() error {
	return apperror.NewValidation("at least one city is required for a local organization").
		WithErrorCode(ErrCodeMissingCity).
		WithDetail("field", "activity.cities")
}

func errDirectorsMinimum(got int) error {
	return apperror.NewValidation("at least 3 directors are required").
		WithErrorCode(ErrCodeDirectorsMinimum).
		WithDetail("field", "legal.directors").
		WithDetail("min", MinDirectors).
		WithDetail("got", got)
}

func errRowNotFound(entity string, rowID id.ID) error {
	return apperror.NewNotFound(entity, rowID.String()).WithErrorCode(ErrCodeRowNotFound)
}
