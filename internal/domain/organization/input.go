package organization

import (
	"context"
	"strings"

	"onghub/internal/core/apperror"
)

// CreateInput is the payload for creating a full organization.
type CreateInput struct {
	General  GeneralInput  `json:"general"`
	Activity ActivityInput `json:"activity"`
	Legal    LegalInput    `json:"legal"`
}

// GeneralInput carries the general facet of a new organization.
type GeneralInput struct {
	Name             string        `json:"name"`
	Alias            string        `json:"alias"`
	Type             Type          `json:"type"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone"`
	YearCreated      int           `json:"yearCreated"`
	CUI              string        `json:"cui"`
	RAFNumber        string        `json:"rafNumber"`
	ShortDescription *string       `json:"shortDescription,omitempty"`
	Description      *string       `json:"description,omitempty"`
	Address          string        `json:"address"`
	Website          *string       `json:"website,omitempty"`
	Facebook         *string       `json:"facebook,omitempty"`
	Instagram        *string       `json:"instagram,omitempty"`
	Twitter          *string       `json:"twitter,omitempty"`
	LinkedIn         *string       `json:"linkedin,omitempty"`
	DonationWebsite  *string       `json:"donationWebsite,omitempty"`
	CityID           int           `json:"cityId"`
	CountyID         int           `json:"countyId"`
	Contact          *ContactInput `json:"contact,omitempty"`
}

// ActivityInput carries the activity facet and the nomenclature ids to attach.
type ActivityInput struct {
	Area                              Area    `json:"area"`
	IsPartOfFederation                bool    `json:"isPartOfFederation"`
	IsPartOfCoalition                 bool    `json:"isPartOfCoalition"`
	IsPartOfInternationalOrganization bool    `json:"isPartOfInternationalOrganization"`
	InternationalOrganizationName     *string `json:"internationalOrganizationName,omitempty"`
	IsSocialServiceViable             bool    `json:"isSocialServiceViable"`
	OffersGrants                      bool    `json:"offersGrants"`
	HasBranches                       bool    `json:"hasBranches"`

	Domains     []int `json:"domains"`
	Regions     []int `json:"regions"`
	Cities      []int `json:"cities"`
	Federations []int `json:"federations"`
	Coalitions  []int `json:"coalitions"`
}

// LegalInput carries the legal facet. The directors minimum is not enforced
// at creation.
type LegalInput struct {
	LegalRepresentative *ContactInput  `json:"legalReprezentative,omitempty"`
	Directors           []ContactInput `json:"directors"`
	OtherInfo           *string        `json:"otherInfo,omitempty"`
}

// Validate checks the shape of the payload. Invariants that depend on
// resolved nomenclatures are checked by the service.
func (in *CreateInput) Validate(ctx context.Context) error {
	if strings.TrimSpace(in.General.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "general.name")
	}
	if strings.TrimSpace(in.General.CUI) == "" {
		return apperror.NewValidation("cui is required").WithDetail("field", "general.cui")
	}
	if in.General.Type != "" && !in.General.Type.IsValid() {
		return apperror.NewValidation("invalid organization type").
			WithDetail("field", "general.type").
			WithDetail("value", string(in.General.Type))
	}
	if !in.Activity.Area.IsValid() {
		return apperror.NewValidation("invalid activity area").
			WithDetail("field", "activity.area").
			WithDetail("value", string(in.Activity.Area))
	}
	return nil
}
