package organization

import (
	"context"
	"fmt"

	"onghub/internal/core/apperror"
	"onghub/internal/core/id"
	"onghub/internal/core/tx"
)

// GeneralService updates the general facet.
type GeneralService struct {
	generals  GeneralRepository
	contacts  ContactRepository
	txManager tx.Manager
}

// NewGeneralService creates a GeneralService.
func NewGeneralService(generals GeneralRepository, contacts ContactRepository, txManager tx.Manager) *GeneralService {
	return &GeneralService{generals: generals, contacts: contacts, txManager: txManager}
}

// Update merges patch into the general record and returns it reloaded with
// city, county and contact.
func (s *GeneralService) Update(ctx context.Context, generalID id.ID, patch GeneralPatch) (*General, error) {
	if patch.Type != nil && !patch.Type.IsValid() {
		return nil, apperror.NewValidation("invalid organization type").
			WithDetail("field", "general.type").
			WithDetail("value", string(*patch.Type))
	}

	var out *General
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		g, err := s.generals.GetByID(ctx, generalID)
		if err != nil {
			return mapRowErr(err, "organization_general", generalID)
		}

		applyGeneralPatch(g, patch)

		if patch.Contact != nil {
			contactID := g.ContactID
			if cid := patch.Contact.ID; cid != nil {
				if g.ContactID == nil || *g.ContactID != *cid {
					return errRowNotFound("contact", *cid)
				}
			}
			c := contactFromInput(*patch.Contact, contactID, nil)
			if err := s.contacts.Save(ctx, c); err != nil {
				return fmt.Errorf("save general contact: %w", err)
			}
			g.ContactID = &c.ID
		}

		if err := s.generals.Update(ctx, g); err != nil {
			return fmt.Errorf("update organization general: %w", err)
		}

		out, err = s.generals.GetByID(ctx, generalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func applyGeneralPatch(g *General, p GeneralPatch) {
	setIf(&g.Name, p.Name)
	setIf(&g.Alias, p.Alias)
	setIf(&g.Type, p.Type)
	setIf(&g.Email, p.Email)
	setIf(&g.Phone, p.Phone)
	setIf(&g.YearCreated, p.YearCreated)
	setIf(&g.CUI, p.CUI)
	setIf(&g.RAFNumber, p.RAFNumber)
	setIf(&g.Address, p.Address)
	setIf(&g.CityID, p.CityID)
	setIf(&g.CountyID, p.CountyID)
	setPtrIf(&g.ShortDescription, p.ShortDescription)
	setPtrIf(&g.Description, p.Description)
	setPtrIf(&g.Website, p.Website)
	setPtrIf(&g.Facebook, p.Facebook)
	setPtrIf(&g.Instagram, p.Instagram)
	setPtrIf(&g.Twitter, p.Twitter)
	setPtrIf(&g.LinkedIn, p.LinkedIn)
	setPtrIf(&g.DonationWebsite, p.DonationWebsite)
}

// setIf copies *src into dst when src is set.
func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// setPtrIf replaces an optional field when src is set.
func setPtrIf[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// contactFromInput builds a contact row. A nil existingID allocates a new id.
func contactFromInput(in ContactInput, existingID *id.ID, legalID *id.ID) *Contact {
	c := &Contact{
		FullName:            in.FullName,
		Email:               in.Email,
		Phone:               in.Phone,
		OrganizationLegalID: legalID,
	}
	if existingID != nil && !id.IsNil(*existingID) {
		c.ID = *existingID
	} else {
		c.ID = id.New()
	}
	return c
}

// mapRowErr turns a repository not-found into the facet-row error code.
func mapRowErr(err error, entity string, rowID id.ID) error {
	if apperror.IsNotFound(err) {
		return errRowNotFound(entity, rowID)
	}
	return fmt.Errorf("load %s: %w", entity, err)
}
