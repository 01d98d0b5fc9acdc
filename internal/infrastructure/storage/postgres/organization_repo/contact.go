package organization_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"onghub/internal/core/apperror"
	"onghub/internal/core/id"
	"onghub/internal/domain/organization"
	"onghub/internal/infrastructure/storage/postgres"
)

const upsertContactSuffix = `ON CONFLICT (id) DO UPDATE SET
	full_name = EXCLUDED.full_name,
	email = EXCLUDED.email,
	phone = EXCLUDED.phone,
	updated_at = now()
WHERE contact.organization_legal_id IS NOT DISTINCT FROM EXCLUDED.organization_legal_id`

// ContactRepo stores general contacts, legal representatives and directors.
type ContactRepo struct {
	t table[organization.Contact]
}

var _ organization.ContactRepository = (*ContactRepo)(nil)

// NewContactRepo creates a contact repository.
func NewContactRepo(txManager *postgres.TxManager) *ContactRepo {
	return &ContactRepo{t: newTable[organization.Contact](txManager, "contact")}
}

func (r *ContactRepo) saveQuery(c *organization.Contact) squirrel.InsertBuilder {
	return r.t.insertQuery(c).Suffix(upsertContactSuffix)
}

// Save inserts c or overwrites the row with the same id. An existing row
// attached to a different legal record is left untouched and reported as
// not found.
func (r *ContactRepo) Save(ctx context.Context, c *organization.Contact) error {
	sql, args, err := r.saveQuery(c).ToSql()
	if err != nil {
		return fmt.Errorf("build contact upsert: %w", err)
	}
	tag, err := r.t.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "contact", c.ID)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("contact", c.ID.String())
	}
	return nil
}

func (r *ContactRepo) deleteDirectorsQuery(legalID id.ID, ids []id.ID) squirrel.DeleteBuilder {
	return builder().Delete("contact").
		Where(squirrel.Eq{"organization_legal_id": legalID}).
		Where(squirrel.Eq{"id": ids})
}

// DeleteDirectors removes directors of legalID. Ids belonging to another legal
// record are ignored.
func (r *ContactRepo) DeleteDirectors(ctx context.Context, legalID id.ID, ids []id.ID) error {
	if len(ids) == 0 {
		return nil
	}
	sql, args, err := r.deleteDirectorsQuery(legalID, ids).ToSql()
	if err != nil {
		return fmt.Errorf("build director delete: %w", err)
	}
	if _, err := r.t.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "contact", legalID)
	}
	return nil
}

func (r *ContactRepo) get(ctx context.Context, contactID id.ID) (*organization.Contact, error) {
	return r.t.get(ctx, contactID)
}

func (r *ContactRepo) directors(ctx context.Context, legalID id.ID) ([]organization.Contact, error) {
	return r.t.list(ctx, squirrel.Eq{"organization_legal_id": legalID}, "created_at", "id")
}
