package organization

import (
	"onghub/internal/core/id"
	"onghub/internal/core/types"
)

// Facet names an independently updatable part of an organization.
type Facet string

const (
	FacetOrganization Facet = "organization"
	FacetGeneral      Facet = "general"
	FacetActivity     Facet = "activity"
	FacetLegal        Facet = "legal"
	FacetFinancial    Facet = "financial"
	FacetReport       Facet = "report"
)

// Patch is a partial update of exactly one facet. The set of implementations
// is closed: GeneralPatch, ActivityPatch, LegalPatch, FinancialPatch and
// ReportPatch.
type Patch interface {
	Facet() Facet
	isPatch()
}

// ContactInput describes a contact to create or update. A nil ID creates a
// new contact.
type ContactInput struct {
	ID       *id.ID `json:"id,omitempty"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// GeneralPatch updates the general facet. Nil fields are left unchanged.
type GeneralPatch struct {
	Name             *string       `json:"name,omitempty"`
	Alias            *string       `json:"alias,omitempty"`
	Type             *Type         `json:"type,omitempty"`
	Email            *string       `json:"email,omitempty"`
	Phone            *string       `json:"phone,omitempty"`
	YearCreated      *int          `json:"yearCreated,omitempty"`
	CUI              *string       `json:"cui,omitempty"`
	RAFNumber        *string       `json:"rafNumber,omitempty"`
	ShortDescription *string       `json:"shortDescription,omitempty"`
	Description      *string       `json:"description,omitempty"`
	Address          *string       `json:"address,omitempty"`
	Website          *string       `json:"website,omitempty"`
	Facebook         *string       `json:"facebook,omitempty"`
	Instagram        *string       `json:"instagram,omitempty"`
	Twitter          *string       `json:"twitter,omitempty"`
	LinkedIn         *string       `json:"linkedin,omitempty"`
	DonationWebsite  *string       `json:"donationWebsite,omitempty"`
	CityID           *int          `json:"cityId,omitempty"`
	CountyID         *int          `json:"countyId,omitempty"`
	Contact          *ContactInput `json:"contact,omitempty"`
}

// ActivityPatch updates the activity facet. A nil id list leaves that
// relation unchanged; an empty one clears it.
type ActivityPatch struct {
	Area                              *Area   `json:"area,omitempty"`
	IsPartOfFederation                *bool   `json:"isPartOfFederation,omitempty"`
	IsPartOfCoalition                 *bool   `json:"isPartOfCoalition,omitempty"`
	IsPartOfInternationalOrganization *bool   `json:"isPartOfInternationalOrganization,omitempty"`
	InternationalOrganizationName     *string `json:"internationalOrganizationName,omitempty"`
	IsSocialServiceViable             *bool   `json:"isSocialServiceViable,omitempty"`
	OffersGrants                      *bool   `json:"offersGrants,omitempty"`
	HasBranches                       *bool   `json:"hasBranches,omitempty"`

	Domains     []int `json:"domains,omitempty"`
	Regions     []int `json:"regions,omitempty"`
	Cities      []int `json:"cities,omitempty"`
	Federations []int `json:"federations,omitempty"`
	Coalitions  []int `json:"coalitions,omitempty"`
}

// LegalPatch updates the legal facet.
type LegalPatch struct {
	LegalRepresentative *ContactInput  `json:"legalReprezentative,omitempty"`
	Directors           []ContactInput `json:"directors,omitempty"`
	DirectorsDeleted    []id.ID        `json:"directorsDeleted,omitempty"`
	OtherInfo           *string        `json:"otherInfo,omitempty"`
}

// FinancialPatch updates one financial row, addressed by its own id.
type FinancialPatch struct {
	ID                id.ID        `json:"id"`
	Total             *types.Money `json:"total,omitempty"`
	NumberOfEmployees *int         `json:"numberOfEmployees,omitempty"`
}

// ReportPatch updates rows of the report facet, each addressed by its own id.
type ReportPatch struct {
	Reports   []ReportEntryPatch `json:"reports,omitempty"`
	Partners  []PartnerPatch     `json:"partners,omitempty"`
	Investors []InvestorPatch    `json:"investors,omitempty"`
}

// ReportEntryPatch updates one yearly report row.
type ReportEntryPatch struct {
	ID                  id.ID   `json:"id"`
	Report              *string `json:"report,omitempty"`
	NumberOfVolunteers  *int    `json:"numberOfVolunteers,omitempty"`
	NumberOfContractors *int    `json:"numberOfContractors,omitempty"`
}

// PartnerPatch updates one yearly partner row.
type PartnerPatch struct {
	ID               id.ID `json:"id"`
	NumberOfPartners *int  `json:"numberOfPartners,omitempty"`
}

// InvestorPatch updates one yearly investor row.
type InvestorPatch struct {
	ID                id.ID `json:"id"`
	NumberOfInvestors *int  `json:"numberOfInvestors,omitempty"`
}

func (GeneralPatch) Facet() Facet   { return FacetGeneral }
func (ActivityPatch) Facet() Facet  { return FacetActivity }
func (LegalPatch) Facet() Facet     { return FacetLegal }
func (FinancialPatch) Facet() Facet { return FacetFinancial }
func (ReportPatch) Facet() Facet    { return FacetReport }

func (GeneralPatch) isPatch()   {}
func (ActivityPatch) isPatch()  {}
func (LegalPatch) isPatch()     {}
func (FinancialPatch) isPatch() {}
func (ReportPatch) isPatch()    {}

// UpdateResult carries the single facet changed by an update.
type UpdateResult struct {
	Facet     Facet
	General   *General
	Activity  *Activity
	Legal     *Legal
	Financial *Financial
	Report    *Report
}

// Value returns the updated facet record.
func (r *UpdateResult) Value() any {
	if r == nil {
		return nil
	}
	switch r.Facet {
	case FacetGeneral:
		return r.General
	case FacetActivity:
		return r.Activity
	case FacetLegal:
		return r.Legal
	case FacetFinancial:
		return r.Financial
	case FacetReport:
		return r.Report
	}
	return nil
}
