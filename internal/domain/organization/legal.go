package organization

import (
	"context"
	"fmt"

	"onghub/internal/core/id"
	"onghub/internal/core/tx"
	"onghub/pkg/logger"
)

// LegalService updates the legal facet: representative, directors and
// free-form notes.
type LegalService struct {
	legals    LegalRepository
	contacts  ContactRepository
	txManager tx.Manager
}

// NewLegalService creates a LegalService.
func NewLegalService(legals LegalRepository, contacts ContactRepository, txManager tx.Manager) *LegalService {
	return &LegalService{legals: legals, contacts: contacts, txManager: txManager}
}

// Update applies patch to the legal record identified by legalID.
//
// When Directors is present it must hold at least MinDirectors entries. The
// check runs against the incoming list only, not against what remains stored
// after DirectorsDeleted is applied. Contact ids in the patch must already
// belong to this legal record (ORG_006 otherwise). Deleted directors are removed before the
// incoming directors are upserted. Everything runs in one transaction.
func (s *LegalService) Update(ctx context.Context, legalID id.ID, patch LegalPatch) (*Legal, error) {
	if patch.Directors != nil && len(patch.Directors) < MinDirectors {
		return nil, errDirectorsMinimum(len(patch.Directors))
	}

	var out *Legal
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		legal, err := s.legals.GetByID(ctx, legalID)
		if err != nil {
			return mapRowErr(err, "organization_legal", legalID)
		}
		if err := checkLegalContactIDs(legal, patch); err != nil {
			return err
		}

		if len(patch.DirectorsDeleted) > 0 {
			if err := s.contacts.DeleteDirectors(ctx, legalID, patch.DirectorsDeleted); err != nil {
				return fmt.Errorf("delete directors: %w", err)
			}
			logger.Debug(ctx, "directors deleted", "legal_id", legalID, "count", len(patch.DirectorsDeleted))
		}

		if patch.LegalRepresentative != nil {
			repID := legal.LegalRepresentativeID
			if patch.LegalRepresentative.ID != nil {
				repID = patch.LegalRepresentative.ID
			}
			rep := contactFromInput(*patch.LegalRepresentative, repID, nil)
			if err := s.contacts.Save(ctx, rep); err != nil {
				return fmt.Errorf("save legal representative: %w", err)
			}
			legal.LegalRepresentativeID = &rep.ID
		}

		owner := legalID
		for _, d := range patch.Directors {
			c := contactFromInput(d, d.ID, &owner)
			if err := s.contacts.Save(ctx, c); err != nil {
				return fmt.Errorf("save director: %w", err)
			}
		}

		setPtrIf(&legal.OtherInfo, patch.OtherInfo)

		if err := s.legals.Update(ctx, legal); err != nil {
			return fmt.Errorf("update organization legal: %w", err)
		}

		out, err = s.legals.GetByID(ctx, legalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// checkLegalContactIDs rejects contact ids that are not the current
// representative or one of the directors stored before the update.
func checkLegalContactIDs(legal *Legal, patch LegalPatch) error {
	if rep := patch.LegalRepresentative; rep != nil && rep.ID != nil {
		if legal.LegalRepresentativeID == nil || *legal.LegalRepresentativeID != *rep.ID {
			return errRowNotFound("contact", *rep.ID)
		}
	}

	owned := make(map[id.ID]struct{}, len(legal.Directors))
	for _, d := range legal.Directors {
		owned[d.ID] = struct{}{}
	}
	for _, d := range patch.Directors {
		if d.ID == nil {
			continue
		}
		if _, ok := owned[*d.ID]; !ok {
			return errRowNotFound("contact", *d.ID)
		}
	}
	return nil
}
