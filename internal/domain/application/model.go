// Package application provides the catalog of third-party applications and
// the per-organization access requests for them.
package application

import (
	"time"

	"onghub/internal/core/id"
)

// Type describes how an application is reached by an organization.
type Type string

const (
	TypeIndependent Type = "INDEPENDENT"
	TypeSimple      Type = "SIMPLE"
	TypeStandalone  Type = "STANDALONE"
)

// IsValid reports whether t is a known application type.
func (t Type) IsValid() bool {
	switch t {
	case TypeIndependent, TypeSimple, TypeStandalone:
		return true
	}
	return false
}

// Status is the state of an organization's access to an application.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusActive     Status = "ACTIVE"
	StatusRestricted Status = "RESTRICTED"
	StatusDisabled   Status = "DISABLED"
)

// transitions lists the statuses reachable from each status.
var transitions = map[Status][]Status{
	StatusPending:    {StatusActive, StatusRestricted, StatusDisabled},
	StatusActive:     {StatusRestricted, StatusDisabled},
	StatusRestricted: {StatusActive, StatusDisabled},
	StatusDisabled:   {StatusActive},
}

// CanTransition reports whether a request may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// Application is a catalog entry.
type Application struct {
	ID               id.ID     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Type             Type      `db:"type" json:"type"`
	Steps            []string  `db:"steps" json:"steps"`
	ShortDescription string    `db:"short_description" json:"shortDescription"`
	Description      string    `db:"description" json:"description"`
	LoginLink        *string   `db:"login_link" json:"loginLink,omitempty"`
	Website          string    `db:"website" json:"website"`
	VideoLink        *string   `db:"video_link" json:"videoLink,omitempty"`
	Logo             string    `db:"logo" json:"logo"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// OngApplication records one organization's access to one application.
type OngApplication struct {
	ID             id.ID     `db:"id" json:"id"`
	OrganizationID id.ID     `db:"organization_id" json:"organizationId"`
	ApplicationID  id.ID     `db:"application_id" json:"applicationId"`
	Status         Status    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// WithOngStatus is a catalog entry seen by one organization. Status is nil
// when the organization never requested the application.
type WithOngStatus struct {
	Application
	Status *Status `db:"status" json:"status"`
}

// CreateInput is the payload for adding an application to the catalog.
type CreateInput struct {
	Name             string   `json:"name"`
	Type             Type     `json:"type"`
	Steps            []string `json:"steps"`
	ShortDescription string   `json:"shortDescription"`
	Description      string   `json:"description"`
	LoginLink        *string  `json:"loginLink,omitempty"`
	Website          string   `json:"website"`
	VideoLink        *string  `json:"videoLink,omitempty"`
	Logo             string   `json:"logo"`
}

// UpdatePatch changes catalog fields. Nil fields are left unchanged.
type UpdatePatch struct {
	Name             *string  `json:"name,omitempty"`
	Steps            []string `json:"steps,omitempty"`
	ShortDescription *string  `json:"shortDescription,omitempty"`
	Description      *string  `json:"description,omitempty"`
	LoginLink        *string  `json:"loginLink,omitempty"`
	Website          *string  `json:"website,omitempty"`
	VideoLink        *string  `json:"videoLink,omitempty"`
	Logo             *string  `json:"logo,omitempty"`
}
