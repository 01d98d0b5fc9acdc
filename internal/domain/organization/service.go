package organization

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"onghub/internal/core/apperror"
	appctx "onghub/internal/core/context"
	"onghub/internal/core/id"
	"onghub/internal/core/tx"
	"onghub/internal/core/types"
	"onghub/internal/domain/nomenclature"
	"onghub/pkg/logger"
)

var tracer = otel.Tracer("onghub/organization")

// GeneralUpdater updates the general facet.
type GeneralUpdater interface {
	Update(ctx context.Context, generalID id.ID, patch GeneralPatch) (*General, error)
}

// ActivityUpdater updates the activity facet.
type ActivityUpdater interface {
	Update(ctx context.Context, activityID id.ID, patch ActivityPatch) (*Activity, error)
}

// LegalUpdater updates the legal facet.
type LegalUpdater interface {
	Update(ctx context.Context, legalID id.ID, patch LegalPatch) (*Legal, error)
}

// FinancialUpdater updates one financial row of an organization.
type FinancialUpdater interface {
	Update(ctx context.Context, orgID id.ID, patch FinancialPatch) (*Financial, error)
}

// ReportUpdater updates the report facet.
type ReportUpdater interface {
	Update(ctx context.Context, reportID id.ID, patch ReportPatch) (*Report, error)
}

// Deps are the collaborators of Service. History, Observer and Now are optional.
type Deps struct {
	TxManager tx.Manager

	Organizations Repository
	Generals      GeneralRepository
	Activities    ActivityRepository
	Legals        LegalRepository
	Contacts      ContactRepository
	Financials    FinancialRepository
	Reports       ReportRepository
	History       HistoryStore

	References ReferenceProvider
	Registry   RegistryClient

	General   GeneralUpdater
	Activity  ActivityUpdater
	Legal     LegalUpdater
	Financial FinancialUpdater
	Report    ReportUpdater

	Observer CreateObserver
	Now      func() time.Time
}

// Service is the aggregate root service. It creates complete organizations
// and routes facet updates to the owning sub-service.
type Service struct {
	d   Deps
	now func() time.Time
}

// NewService creates the organization service.
func NewService(d Deps) *Service {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Service{d: d, now: now}
}

// references holds the nomenclature rows resolved for a create call.
type references struct {
	domains     []nomenclature.Domain
	regions     []nomenclature.Region
	cities      []nomenclature.City
	federations []nomenclature.Federation
	coalitions  []nomenclature.Coalition
}

// Create builds and persists a complete organization.
//
// Nomenclature lookups and the registry call run concurrently; any failure
// aborts before a write happens. All rows are written in one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (_ *Organization, err error) {
	ctx, span := tracer.Start(ctx, "organization.Create")
	started := time.Now()
	defer func() {
		result := "success"
		if err != nil {
			result = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if s.d.Observer != nil {
			s.d.Observer.ObserveOrganizationCreate(result, time.Since(started).Seconds())
		}
		span.End()
	}()

	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	now := s.now()
	previousYear := now.Year() - 1
	span.SetAttributes(attribute.String("organization.cui", in.General.CUI))

	refs, fin, err := s.lookup(ctx, in, previousYear)
	if err != nil {
		return nil, err
	}

	if in.Activity.Area == AreaRegional && len(refs.regions) == 0 {
		return nil, errMissingRegion()
	}
	if in.Activity.Area == AreaLocal && len(refs.cities) == 0 {
		return nil, errMissingCity()
	}

	org := buildAggregate(in, refs, fin, now)

	err = s.d.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.persist(ctx, org); err != nil {
			return err
		}
		return s.record(ctx, org.ID, FacetOrganization, ActionCreate, in)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "organization created", "organization_id", org.ID, "cui", in.General.CUI)

	return s.FindOne(ctx, org.ID)
}

// lookup resolves every nomenclature list and fetches the registry snapshot.
func (s *Service) lookup(ctx context.Context, in CreateInput, year int) (*references, FinancialInformation, error) {
	var (
		refs references
		fin  FinancialInformation
	)
	a := in.Activity

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.d.References.GetDomains(gctx, a.Domains)
		if err != nil {
			return fmt.Errorf("resolve domains: %w", err)
		}
		refs.domains = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.d.References.GetRegions(gctx, a.Regions)
		if err != nil {
			return fmt.Errorf("resolve regions: %w", err)
		}
		refs.regions = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.d.References.GetCities(gctx, a.Cities)
		if err != nil {
			return fmt.Errorf("resolve cities: %w", err)
		}
		refs.cities = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.d.References.GetFederations(gctx, a.Federations)
		if err != nil {
			return fmt.Errorf("resolve federations: %w", err)
		}
		refs.federations = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.d.References.GetCoalitions(gctx, a.Coalitions)
		if err != nil {
			return fmt.Errorf("resolve coalitions: %w", err)
		}
		refs.coalitions = rows
		return nil
	})
	g.Go(func() error {
		info, err := s.d.Registry.GetFinancialInformation(gctx, in.General.CUI, year)
		if err != nil {
			return fmt.Errorf("registry lookup for %s/%d: %w", in.General.CUI, year, err)
		}
		fin = info
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, FinancialInformation{}, err
	}
	return &refs, fin, nil
}

// buildAggregate assembles every row of a new organization with fresh ids.
func buildAggregate(in CreateInput, refs *references, fin FinancialInformation, now time.Time) *Organization {
	previousYear := now.Year() - 1
	currentYear := now.Year()

	gi := in.General
	general := &General{
		ID:               id.New(),
		Name:             gi.Name,
		Alias:            gi.Alias,
		Type:             gi.Type,
		Email:            gi.Email,
		Phone:            gi.Phone,
		YearCreated:      gi.YearCreated,
		CUI:              gi.CUI,
		RAFNumber:        gi.RAFNumber,
		ShortDescription: gi.ShortDescription,
		Description:      gi.Description,
		Address:          gi.Address,
		Website:          gi.Website,
		Facebook:         gi.Facebook,
		Instagram:        gi.Instagram,
		Twitter:          gi.Twitter,
		LinkedIn:         gi.LinkedIn,
		DonationWebsite:  gi.DonationWebsite,
		CityID:           gi.CityID,
		CountyID:         gi.CountyID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if gi.Contact != nil {
		general.Contact = contactFromInput(*gi.Contact, nil, nil)
		general.ContactID = &general.Contact.ID
	}

	ai := in.Activity
	activity := &Activity{
		ID:                                id.New(),
		Area:                              ai.Area,
		IsPartOfFederation:                ai.IsPartOfFederation,
		IsPartOfCoalition:                 ai.IsPartOfCoalition,
		IsPartOfInternationalOrganization: ai.IsPartOfInternationalOrganization,
		InternationalOrganizationName:     ai.InternationalOrganizationName,
		IsSocialServiceViable:             ai.IsSocialServiceViable,
		OffersGrants:                      ai.OffersGrants,
		HasBranches:                       ai.HasBranches,
		CreatedAt:                         now,
		UpdatedAt:                         now,
		Domains:                           refs.domains,
		Regions:                           refs.regions,
		Cities:                            refs.cities,
		Federations:                       refs.federations,
		Coalitions:                        refs.coalitions,
	}

	legal := &Legal{
		ID:        id.New(),
		OtherInfo: in.Legal.OtherInfo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Legal.LegalRepresentative != nil {
		legal.LegalRepresentative = contactFromInput(*in.Legal.LegalRepresentative, nil, nil)
		legal.LegalRepresentativeID = &legal.LegalRepresentative.ID
	}
	legalID := legal.ID
	for _, d := range in.Legal.Directors {
		legal.Directors = append(legal.Directors, *contactFromInput(d, nil, &legalID))
	}

	report := &Report{ID: id.New(), CreatedAt: now, UpdatedAt: now}
	report.Reports = []ReportEntry{{
		ID:        id.New(),
		ReportID:  report.ID,
		Year:      currentYear,
		Status:    StatusNotCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	report.Partners = []Partner{{
		ID:        id.New(),
		ReportID:  report.ID,
		Year:      currentYear,
		Status:    StatusNotCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	report.Investors = []Investor{{
		ID:        id.New(),
		ReportID:  report.ID,
		Year:      currentYear,
		Status:    StatusNotCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}}

	org := &Organization{
		ID:         id.New(),
		GeneralID:  general.ID,
		ActivityID: activity.ID,
		LegalID:    legal.ID,
		ReportID:   report.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
		General:    general,
		Activity:   activity,
		Legal:      legal,
		Report:     report,
	}

	org.Financial = []Financial{
		newFinancialRow(org.ID, FinancialExpense, previousYear, fin.TotalExpense, fin.NumberOfEmployees, now),
		newFinancialRow(org.ID, FinancialIncome, previousYear, fin.TotalIncome, fin.NumberOfEmployees, now),
	}
	return org
}

func newFinancialRow(orgID id.ID, t FinancialType, year int, total types.Money, employees int, now time.Time) Financial {
	return Financial{
		ID:                id.New(),
		OrganizationID:    orgID,
		Type:              t,
		Year:              year,
		Total:             total,
		NumberOfEmployees: employees,
		Status:            StatusNotCompleted,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// persist writes the aggregate in foreign-key order. It must run inside a
// transaction.
func (s *Service) persist(ctx context.Context, org *Organization) error {
	g := org.General
	if g.Contact != nil {
		if err := s.d.Contacts.Save(ctx, g.Contact); err != nil {
			return fmt.Errorf("save general contact: %w", err)
		}
	}
	if err := s.d.Generals.Create(ctx, g); err != nil {
		return fmt.Errorf("create organization general: %w", err)
	}

	a := org.Activity
	if err := s.d.Activities.Create(ctx, a); err != nil {
		return fmt.Errorf("create organization activity: %w", err)
	}
	links := map[Relation][]int{
		RelationDomains:     idsOf(a.Domains, func(r nomenclature.Domain) int { return r.ID }),
		RelationRegions:     idsOf(a.Regions, func(r nomenclature.Region) int { return r.ID }),
		RelationCities:      idsOf(a.Cities, func(r nomenclature.City) int { return r.ID }),
		RelationFederations: idsOf(a.Federations, func(r nomenclature.Federation) int { return r.ID }),
		RelationCoalitions:  idsOf(a.Coalitions, func(r nomenclature.Coalition) int { return r.ID }),
	}
	for _, rel := range relationOrder {
		if len(links[rel]) == 0 {
			continue
		}
		if err := s.d.Activities.ReplaceRelation(ctx, a.ID, rel, links[rel]); err != nil {
			return fmt.Errorf("link activity %s: %w", rel, err)
		}
	}

	l := org.Legal
	if l.LegalRepresentative != nil {
		if err := s.d.Contacts.Save(ctx, l.LegalRepresentative); err != nil {
			return fmt.Errorf("save legal representative: %w", err)
		}
	}
	if err := s.d.Legals.Create(ctx, l); err != nil {
		return fmt.Errorf("create organization legal: %w", err)
	}
	for i := range l.Directors {
		if err := s.d.Contacts.Save(ctx, &l.Directors[i]); err != nil {
			return fmt.Errorf("save director: %w", err)
		}
	}

	if err := s.d.Reports.Create(ctx, org.Report); err != nil {
		return fmt.Errorf("create organization report: %w", err)
	}

	if err := s.d.Organizations.Create(ctx, org); err != nil {
		return fmt.Errorf("create organization: %w", err)
	}

	if err := s.d.Financials.CreateBatch(ctx, org.Financial); err != nil {
		return fmt.Errorf("create organization financial: %w", err)
	}
	return nil
}

// FindOne loads an organization with its full relation graph from a single
// snapshot.
func (s *Service) FindOne(ctx context.Context, orgID id.ID) (*Organization, error) {
	var org *Organization
	err := tx.Snapshot(ctx, s.d.TxManager, func(ctx context.Context) error {
		var err error
		org, err = s.d.Organizations.GetAggregate(ctx, orgID)
		return err
	})
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, errOrganizationNotFound(orgID)
		}
		return nil, fmt.Errorf("get organization %s: %w", orgID, err)
	}
	return org, nil
}

// Update applies one facet patch to the organization. The facet sub-service
// receives the facet's own id. A nil patch yields a nil result.
func (s *Service) Update(ctx context.Context, orgID id.ID, patch Patch) (*UpdateResult, error) {
	org, err := s.d.Organizations.GetByID(ctx, orgID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, errUpdateTargetNotFound(orgID)
		}
		return nil, fmt.Errorf("get organization %s: %w", orgID, err)
	}

	if patch == nil {
		return nil, nil
	}

	var res *UpdateResult
	err = s.d.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.dispatch(ctx, org, patch)
		if err != nil {
			return err
		}
		return s.record(ctx, org.ID, patch.Facet(), ActionUpdate, patch)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "organization updated", "organization_id", org.ID, "facet", patch.Facet())
	return res, nil
}

func (s *Service) dispatch(ctx context.Context, org *Organization, patch Patch) (*UpdateResult, error) {
	switch p := patch.(type) {
	case GeneralPatch:
		g, err := s.d.General.Update(ctx, org.GeneralID, p)
		if err != nil {
			return nil, err
		}
		return &UpdateResult{Facet: FacetGeneral, General: g}, nil
	case ActivityPatch:
		a, err := s.d.Activity.Update(ctx, org.ActivityID, p)
		if err != nil {
			return nil, err
		}
		return &UpdateResult{Facet: FacetActivity, Activity: a}, nil
	case LegalPatch:
		l, err := s.d.Legal.Update(ctx, org.LegalID, p)
		if err != nil {
			return nil, err
		}
		return &UpdateResult{Facet: FacetLegal, Legal: l}, nil
	case FinancialPatch:
		f, err := s.d.Financial.Update(ctx, org.ID, p)
		if err != nil {
			return nil, err
		}
		return &UpdateResult{Facet: FacetFinancial, Financial: f}, nil
	case ReportPatch:
		r, err := s.d.Report.Update(ctx, org.ReportID, p)
		if err != nil {
			return nil, err
		}
		return &UpdateResult{Facet: FacetReport, Report: r}, nil
	default:
		return nil, apperror.NewValidation(fmt.Sprintf("unsupported patch %T", patch))
	}
}

// History returns the most recent change entries of an organization.
func (s *Service) History(ctx context.Context, orgID id.ID, limit int) ([]HistoryEntry, error) {
	if _, err := s.d.Organizations.GetByID(ctx, orgID); err != nil {
		if apperror.IsNotFound(err) {
			return nil, errOrganizationNotFound(orgID)
		}
		return nil, fmt.Errorf("get organization %s: %w", orgID, err)
	}
	if s.d.History == nil {
		return []HistoryEntry{}, nil
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.d.History.List(ctx, orgID, limit)
}

func (s *Service) record(ctx context.Context, orgID id.ID, facet Facet, action string, payload any) error {
	if s.d.History == nil {
		return nil
	}
	changes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal history changes: %w", err)
	}
	entry := &HistoryEntry{
		ID:             id.New(),
		OrganizationID: orgID,
		Facet:          facet,
		Action:         action,
		Changes:        changes,
		UserID:         appctx.GetUserID(ctx),
		CreatedAt:      s.now(),
	}
	if err := s.d.History.Record(ctx, entry); err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}
