package postgres

import (
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"onghub/internal/core/apperror"
)

// MapError translates driver errors into application errors. entity names the
// table family for not-found and conflict messages.
func MapError(err error, entity string, key any) error {
	if err == nil {
		return nil
	}
	if pgxscan.NotFound(err) {
		return apperror.NewNotFound(entity, key)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return apperror.NewConflict(fmt.Sprintf("%s already exists", entity)).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)

	case pgerrcode.ForeignKeyViolation:
		return apperror.NewConflict(fmt.Sprintf("%s references a missing row", entity)).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)

	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return apperror.NewValidation(fmt.Sprintf("%s violates constraint %s", entity, pgErr.ConstraintName)).
			WithDetail("column", pgErr.ColumnName).
			WithCause(err)

	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("transaction conflict (retryable): %w", err)

	case pgerrcode.QueryCanceled:
		return apperror.NewTimeout("database statement timed out", err)
	}

	return fmt.Errorf("database error %s: %w", pgErr.Code, err)
}
