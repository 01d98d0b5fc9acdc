// Package nomenclature provides the reference data (counties, cities, domains,
// regions, federations, coalitions) attached to organization profiles.
package nomenclature

// County is a first-level administrative unit.
type County struct {
	ID           int    `db:"id" json:"id" yaml:"id"`
	Name         string `db:"name" json:"name" yaml:"name"`
	Abbreviation string `db:"abbreviation" json:"abbreviation" yaml:"abbreviation"`
}

// City belongs to exactly one county.
type City struct {
	ID       int    `db:"id" json:"id" yaml:"id"`
	Name     string `db:"name" json:"name" yaml:"name"`
	CountyID int    `db:"county_id" json:"countyId" yaml:"countyId"`
}

// Domain is an activity domain (education, health, ...).
type Domain struct {
	ID   int    `db:"id" json:"id" yaml:"id"`
	Name string `db:"name" json:"name" yaml:"name"`
}

// Region is a development region grouping several counties.
type Region struct {
	ID   int    `db:"id" json:"id" yaml:"id"`
	Name string `db:"name" json:"name" yaml:"name"`
}

// Federation an organization may declare membership of.
type Federation struct {
	ID           int    `db:"id" json:"id" yaml:"id"`
	Name         string `db:"name" json:"name" yaml:"name"`
	Abbreviation string `db:"abbreviation" json:"abbreviation" yaml:"abbreviation"`
}

// Coalition an organization may declare membership of.
type Coalition struct {
	ID   int    `db:"id" json:"id" yaml:"id"`
	Name string `db:"name" json:"name" yaml:"name"`
}

// Kind names a nomenclature table. Used for cache keys and seeding.
type Kind string

const (
	KindCounty     Kind = "counties"
	KindCity       Kind = "cities"
	KindDomain     Kind = "domains"
	KindRegion     Kind = "regions"
	KindFederation Kind = "federations"
	KindCoalition  Kind = "coalitions"
)
