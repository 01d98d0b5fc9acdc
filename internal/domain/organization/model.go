// Package organization implements the organization aggregate: the root record
// and its general, activity, legal, financial and report facets.
package organization

import (
	"encoding/json"
	"time"

	"onghub/internal/core/id"
	"onghub/internal/core/types"
	"onghub/internal/domain/nomenclature"
)

// Area is the geographic reach an organization declares for its activity.
type Area string

const (
	AreaNational Area = "NATIONAL"
	AreaRegional Area = "REGIONAL"
	AreaLocal    Area = "LOCAL"
)

// IsValid reports whether a is a known area.
func (a Area) IsValid() bool {
	switch a {
	case AreaNational, AreaRegional, AreaLocal:
		return true
	}
	return false
}

// Type is the legal form of an organization.
type Type string

const (
	TypeAssociation Type = "ASSOCIATION"
	TypeFoundation  Type = "FOUNDATION"
	TypeFederation  Type = "FEDERATION"
)

// IsValid reports whether t is a known legal form.
func (t Type) IsValid() bool {
	switch t {
	case TypeAssociation, TypeFoundation, TypeFederation:
		return true
	}
	return false
}

// FinancialType distinguishes income rows from expense rows.
type FinancialType string

const (
	FinancialIncome  FinancialType = "INCOME"
	FinancialExpense FinancialType = "EXPENSE"
)

// CompletionStatus tracks whether the organization has filled in a yearly row.
type CompletionStatus string

const (
	StatusCompleted    CompletionStatus = "COMPLETED"
	StatusNotCompleted CompletionStatus = "NOT_COMPLETED"
)

// Organization is the aggregate root. It always owns exactly one General,
// Activity, Legal and Report record, all created together.
type Organization struct {
	ID         id.ID     `db:"id" json:"id"`
	GeneralID  id.ID     `db:"organization_general_id" json:"organizationGeneralId"`
	ActivityID id.ID     `db:"organization_activity_id" json:"organizationActivityId"`
	LegalID    id.ID     `db:"organization_legal_id" json:"organizationLegalId"`
	ReportID   id.ID     `db:"organization_report_id" json:"organizationReportId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`

	// Relations, populated by GetAggregate.
	General   *General    `db:"-" json:"organizationGeneral,omitempty"`
	Activity  *Activity   `db:"-" json:"organizationActivity,omitempty"`
	Legal     *Legal      `db:"-" json:"organizationLegal,omitempty"`
	Financial []Financial `db:"-" json:"organizationFinancial,omitempty"`
	Report    *Report     `db:"-" json:"organizationReport,omitempty"`
}

// Contact is a person attached to an organization: the general contact, the
// legal representative or one of the directors.
type Contact struct {
	ID       id.ID  `db:"id" json:"id"`
	FullName string `db:"full_name" json:"fullName"`
	Email    string `db:"email" json:"email"`
	Phone    string `db:"phone" json:"phone"`

	// OrganizationLegalID is set only for directors.
	OrganizationLegalID *id.ID `db:"organization_legal_id" json:"organizationLegalId,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// General holds the descriptive and contact data of an organization.
type General struct {
	ID               id.ID   `db:"id" json:"id"`
	Name             string  `db:"name" json:"name"`
	Alias            string  `db:"alias" json:"alias"`
	Type             Type    `db:"type" json:"type"`
	Email            string  `db:"email" json:"email"`
	Phone            string  `db:"phone" json:"phone"`
	YearCreated      int     `db:"year_created" json:"yearCreated"`
	CUI              string  `db:"cui" json:"cui"`
	RAFNumber        string  `db:"raf_number" json:"rafNumber"`
	ShortDescription *string `db:"short_description" json:"shortDescription,omitempty"`
	Description      *string `db:"description" json:"description,omitempty"`
	Address          string  `db:"address" json:"address"`
	Website          *string `db:"website" json:"website,omitempty"`
	Facebook         *string `db:"facebook" json:"facebook,omitempty"`
	Instagram        *string `db:"instagram" json:"instagram,omitempty"`
	Twitter          *string `db:"twitter" json:"twitter,omitempty"`
	LinkedIn         *string `db:"linkedin" json:"linkedin,omitempty"`
	DonationWebsite  *string `db:"donation_website" json:"donationWebsite,omitempty"`
	CityID           int     `db:"city_id" json:"cityId"`
	CountyID         int     `db:"county_id" json:"countyId"`
	ContactID        *id.ID  `db:"contact_id" json:"contactId,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	City    *nomenclature.City   `db:"-" json:"city,omitempty"`
	County  *nomenclature.County `db:"-" json:"county,omitempty"`
	Contact *Contact             `db:"-" json:"contact,omitempty"`
}

// Activity classifies what an organization does and where.
type Activity struct {
	ID                                id.ID   `db:"id" json:"id"`
	Area                              Area    `db:"area" json:"area"`
	IsPartOfFederation                bool    `db:"is_part_of_federation" json:"isPartOfFederation"`
	IsPartOfCoalition                 bool    `db:"is_part_of_coalition" json:"isPartOfCoalition"`
	IsPartOfInternationalOrganization bool    `db:"is_part_of_international_organization" json:"isPartOfInternationalOrganization"`
	InternationalOrganizationName     *string `db:"international_organization_name" json:"internationalOrganizationName,omitempty"`
	IsSocialServiceViable             bool    `db:"is_social_service_viable" json:"isSocialServiceViable"`
	OffersGrants                      bool    `db:"offers_grants" json:"offersGrants"`
	HasBranches                       bool    `db:"has_branches" json:"hasBranches"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Domains     []nomenclature.Domain     `db:"-" json:"domains"`
	Regions     []nomenclature.Region     `db:"-" json:"regions"`
	Cities      []nomenclature.City       `db:"-" json:"cities"`
	Federations []nomenclature.Federation `db:"-" json:"federations"`
	Coalitions  []nomenclature.Coalition  `db:"-" json:"coalitions"`
}

// Relation names a many-to-many link between an activity and a nomenclature.
type Relation string

const (
	RelationDomains     Relation = "domains"
	RelationRegions     Relation = "regions"
	RelationCities      Relation = "cities"
	RelationFederations Relation = "federations"
	RelationCoalitions  Relation = "coalitions"
)

// Legal holds the legal representative and the board of directors.
type Legal struct {
	ID                    id.ID   `db:"id" json:"id"`
	LegalRepresentativeID *id.ID  `db:"legal_representative_id" json:"legalReprezentativeId,omitempty"`
	OtherInfo             *string `db:"other_info" json:"otherInfo,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	LegalRepresentative *Contact  `db:"-" json:"legalReprezentative,omitempty"`
	Directors           []Contact `db:"-" json:"directors"`
}

// Financial is one (type, year) row of an organization's financial data.
type Financial struct {
	ID                id.ID            `db:"id" json:"id"`
	OrganizationID    id.ID            `db:"organization_id" json:"organizationId"`
	Type              FinancialType    `db:"type" json:"type"`
	Year              int              `db:"year" json:"year"`
	Total             types.Money      `db:"total" json:"total"`
	NumberOfEmployees int              `db:"number_of_employees" json:"numberOfEmployees"`
	Status            CompletionStatus `db:"status" json:"status"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Report is the container of the yearly report, partner and investor rows.
type Report struct {
	ID        id.ID     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Reports   []ReportEntry `db:"-" json:"reports"`
	Partners  []Partner     `db:"-" json:"partners"`
	Investors []Investor    `db:"-" json:"investors"`
}

// ReportEntry is the narrative activity report for one year.
type ReportEntry struct {
	ID                  id.ID            `db:"id" json:"id"`
	ReportID            id.ID            `db:"organization_report_id" json:"organizationReportId"`
	Report              string           `db:"report" json:"report"`
	NumberOfVolunteers  int              `db:"number_of_volunteers" json:"numberOfVolunteers"`
	NumberOfContractors int              `db:"number_of_contractors" json:"numberOfContractors"`
	Year                int              `db:"year" json:"year"`
	Status              CompletionStatus `db:"status" json:"status"`
	CreatedAt           time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time        `db:"updated_at" json:"updatedAt"`
}

// Partner counts the partners an organization had in one year.
type Partner struct {
	ID               id.ID            `db:"id" json:"id"`
	ReportID         id.ID            `db:"organization_report_id" json:"organizationReportId"`
	NumberOfPartners int              `db:"number_of_partners" json:"numberOfPartners"`
	Year             int              `db:"year" json:"year"`
	Status           CompletionStatus `db:"status" json:"status"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}

// Investor counts the investors an organization had in one year.
type Investor struct {
	ID                id.ID            `db:"id" json:"id"`
	ReportID          id.ID            `db:"organization_report_id" json:"organizationReportId"`
	NumberOfInvestors int              `db:"number_of_investors" json:"numberOfInvestors"`
	Year              int              `db:"year" json:"year"`
	Status            CompletionStatus `db:"status" json:"status"`
	CreatedAt         time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updatedAt"`
}

// FinancialInformation is the registry snapshot used to seed financial rows.
type FinancialInformation struct {
	TotalIncome       types.Money
	TotalExpense      types.Money
	NumberOfEmployees int
}

// HistoryEntry records one change applied to an organization.
type HistoryEntry struct {
	ID             id.ID           `json:"id"`
	OrganizationID id.ID           `json:"organizationId"`
	Facet          Facet           `json:"facet"`
	Action         string          `json:"action"`
	Changes        json.RawMessage `json:"changes,omitempty"`
	UserID         string          `json:"userId,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// History actions.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
)
