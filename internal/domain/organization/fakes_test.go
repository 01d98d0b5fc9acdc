package organization

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"

	"onghub/internal/core/apperror"
	"onghub/internal/core/id"
	"onghub/internal/domain/nomenclature"
)

// memStore is an in-memory backing store for every repository port.
type memStore struct {
	mu sync.Mutex

	orgs       map[id.ID]Organization
	generals   map[id.ID]General
	activities map[id.ID]Activity
	links      map[linkKey][]int
	legals     map[id.ID]Legal
	contacts   map[id.ID]Contact
	financials map[id.ID]Financial
	reports    map[id.ID]Report
	entries    map[id.ID]ReportEntry
	partners   map[id.ID]Partner
	investors  map[id.ID]Investor
	history    []HistoryEntry

	lastHistoryLimit int

	writes int
	failOp string
	refs   *fakeRefs
}

type linkKey struct {
	activityID id.ID
	rel        Relation
}

var errInjected = errors.New("injected failure")

func newMemStore(refs *fakeRefs) *memStore {
	return &memStore{
		orgs:       map[id.ID]Organization{},
		generals:   map[id.ID]General{},
		activities: map[id.ID]Activity{},
		links:      map[linkKey][]int{},
		legals:     map[id.ID]Legal{},
		contacts:   map[id.ID]Contact{},
		financials: map[id.ID]Financial{},
		reports:    map[id.ID]Report{},
		entries:    map[id.ID]ReportEntry{},
		partners:   map[id.ID]Partner{},
		investors:  map[id.ID]Investor{},
		refs:       refs,
	}
}

// write counts a mutation and fails when op was configured to fail.
func (m *memStore) write(op string) error {
	if m.failOp == op {
		return errInjected
	}
	m.writes++
	return nil
}

func (m *memStore) snapshot() *memStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &memStore{
		orgs:       maps.Clone(m.orgs),
		generals:   maps.Clone(m.generals),
		activities: maps.Clone(m.activities),
		links:      maps.Clone(m.links),
		legals:     maps.Clone(m.legals),
		contacts:   maps.Clone(m.contacts),
		financials: maps.Clone(m.financials),
		reports:    maps.Clone(m.reports),
		entries:    maps.Clone(m.entries),
		partners:   maps.Clone(m.partners),
		investors:  maps.Clone(m.investors),
		history:    append([]HistoryEntry(nil), m.history...),
	}
}

func (m *memStore) restore(s *memStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orgs, m.generals, m.activities, m.links = s.orgs, s.generals, s.activities, s.links
	m.legals, m.contacts, m.financials = s.legals, s.contacts, s.financials
	m.reports, m.entries, m.partners, m.investors = s.reports, s.entries, s.partners, s.investors
	m.history = s.history
}

func notFound(entity string, v id.ID) error {
	return apperror.NewNotFound(entity, v.String())
}

// --- tx ---

type memTx struct {
	s         *memStore
	commits   int
	rollbacks int
	snapshots int
}

type inTxKey struct{}

func (t *memTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(inTxKey{}) != nil {
		return fn(ctx)
	}
	snap := t.s.snapshot()
	if err := fn(context.WithValue(ctx, inTxKey{}, true)); err != nil {
		t.s.restore(snap)
		t.rollbacks++
		return err
	}
	t.commits++
	return nil
}

// ReadOnly does not count as a commit.
func (t *memTx) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	t.snapshots++
	return fn(ctx)
}

// --- organization ---

type memOrgRepo struct{ *memStore }

func (r memOrgRepo) Create(ctx context.Context, o *Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("org.create"); err != nil {
		return err
	}
	row := *o
	row.General, row.Activity, row.Legal, row.Report, row.Financial = nil, nil, nil, nil, nil
	r.orgs[o.ID] = row
	return nil
}

func (r memOrgRepo) GetByID(ctx context.Context, orgID id.ID) (*Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orgs[orgID]
	if !ok {
		return nil, notFound("organization", orgID)
	}
	return &o, nil
}

func (r memOrgRepo) GetAggregate(ctx context.Context, orgID id.ID) (*Organization, error) {
	o, err := r.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if o.General, err = (memGeneralRepo{r.memStore}).GetByID(ctx, o.GeneralID); err != nil {
		return nil, err
	}
	if o.Activity, err = (memActivityRepo{r.memStore}).GetByID(ctx, o.ActivityID); err != nil {
		return nil, err
	}
	if o.Legal, err = (memLegalRepo{r.memStore}).GetByID(ctx, o.LegalID); err != nil {
		return nil, err
	}
	if o.Report, err = (memReportRepo{r.memStore}).GetByID(ctx, o.ReportID); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.financials {
		if f.OrganizationID == orgID {
			o.Financial = append(o.Financial, f)
		}
	}
	sort.Slice(o.Financial, func(i, j int) bool { return o.Financial[i].Type < o.Financial[j].Type })
	return o, nil
}

// --- general ---

type memGeneralRepo struct{ *memStore }

func (r memGeneralRepo) Create(ctx context.Context, g *General) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("general.create"); err != nil {
		return err
	}
	row := *g
	row.City, row.County, row.Contact = nil, nil, nil
	r.generals[g.ID] = row
	return nil
}

func (r memGeneralRepo) Update(ctx context.Context, g *General) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("general.update"); err != nil {
		return err
	}
	row := *g
	row.City, row.County, row.Contact = nil, nil, nil
	r.generals[g.ID] = row
	return nil
}

func (r memGeneralRepo) GetByID(ctx context.Context, generalID id.ID) (*General, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.generals[generalID]
	if !ok {
		return nil, notFound("organization_general", generalID)
	}
	if g.ContactID != nil {
		if c, ok := r.contacts[*g.ContactID]; ok {
			g.Contact = &c
		}
	}
	return &g, nil
}

// --- activity ---

type memActivityRepo struct{ *memStore }

func (r memActivityRepo) Create(ctx context.Context, a *Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("activity.create"); err != nil {
		return err
	}
	r.activities[a.ID] = stripActivity(*a)
	return nil
}

func (r memActivityRepo) Update(ctx context.Context, a *Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("activity.update"); err != nil {
		return err
	}
	r.activities[a.ID] = stripActivity(*a)
	return nil
}

func stripActivity(a Activity) Activity {
	a.Domains, a.Regions, a.Cities, a.Federations, a.Coalitions = nil, nil, nil, nil, nil
	return a
}

func (r memActivityRepo) ReplaceRelation(ctx context.Context, activityID id.ID, rel Relation, ids []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("activity.link"); err != nil {
		return err
	}
	r.links[linkKey{activityID, rel}] = append([]int(nil), ids...)
	return nil
}

func (r memActivityRepo) GetByID(ctx context.Context, activityID id.ID) (*Activity, error) {
	r.mu.Lock()
	a, ok := r.activities[activityID]
	links := maps.Clone(r.links)
	r.mu.Unlock()
	if !ok {
		return nil, notFound("organization_activity", activityID)
	}
	refs := r.refs
	a.Domains, _ = refs.GetDomains(ctx, links[linkKey{activityID, RelationDomains}])
	a.Regions, _ = refs.GetRegions(ctx, links[linkKey{activityID, RelationRegions}])
	a.Cities, _ = refs.GetCities(ctx, links[linkKey{activityID, RelationCities}])
	a.Federations, _ = refs.GetFederations(ctx, links[linkKey{activityID, RelationFederations}])
	a.Coalitions, _ = refs.GetCoalitions(ctx, links[linkKey{activityID, RelationCoalitions}])
	return &a, nil
}

// --- legal + contacts ---

type memLegalRepo struct{ *memStore }

func (r memLegalRepo) Create(ctx context.Context, l *Legal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("legal.create"); err != nil {
		return err
	}
	row := *l
	row.LegalRepresentative, row.Directors = nil, nil
	r.legals[l.ID] = row
	return nil
}

func (r memLegalRepo) Update(ctx context.Context, l *Legal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("legal.update"); err != nil {
		return err
	}
	row := *l
	row.LegalRepresentative, row.Directors = nil, nil
	r.legals[l.ID] = row
	return nil
}

func (r memLegalRepo) GetByID(ctx context.Context, legalID id.ID) (*Legal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.legals[legalID]
	if !ok {
		return nil, notFound("organization_legal", legalID)
	}
	if l.LegalRepresentativeID != nil {
		if c, ok := r.contacts[*l.LegalRepresentativeID]; ok {
			l.LegalRepresentative = &c
		}
	}
	for _, c := range r.contacts {
		if c.OrganizationLegalID != nil && *c.OrganizationLegalID == legalID {
			l.Directors = append(l.Directors, c)
		}
	}
	sort.Slice(l.Directors, func(i, j int) bool { return l.Directors[i].FullName < l.Directors[j].FullName })
	return &l, nil
}

type memContactRepo struct{ *memStore }

func (r memContactRepo) Save(ctx context.Context, c *Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("contact.save"); err != nil {
		return err
	}
	r.contacts[c.ID] = *c
	return nil
}

func (r memContactRepo) DeleteDirectors(ctx context.Context, legalID id.ID, ids []id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("contact.delete"); err != nil {
		return err
	}
	for _, cid := range ids {
		c, ok := r.contacts[cid]
		if ok && c.OrganizationLegalID != nil && *c.OrganizationLegalID == legalID {
			delete(r.contacts, cid)
		}
	}
	return nil
}

// --- financial ---

type memFinancialRepo struct{ *memStore }

func (r memFinancialRepo) CreateBatch(ctx context.Context, rows []Financial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("financial.create"); err != nil {
		return err
	}
	for _, f := range rows {
		r.financials[f.ID] = f
	}
	return nil
}

func (r memFinancialRepo) GetByID(ctx context.Context, financialID id.ID) (*Financial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.financials[financialID]
	if !ok {
		return nil, notFound("organization_financial", financialID)
	}
	return &f, nil
}

func (r memFinancialRepo) Update(ctx context.Context, f *Financial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("financial.update"); err != nil {
		return err
	}
	r.financials[f.ID] = *f
	return nil
}

// --- report ---

type memReportRepo struct{ *memStore }

func (r memReportRepo) Create(ctx context.Context, rep *Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("report.create"); err != nil {
		return err
	}
	r.reports[rep.ID] = Report{ID: rep.ID, CreatedAt: rep.CreatedAt, UpdatedAt: rep.UpdatedAt}
	for _, e := range rep.Reports {
		r.entries[e.ID] = e
	}
	for _, p := range rep.Partners {
		r.partners[p.ID] = p
	}
	for _, i := range rep.Investors {
		r.investors[i.ID] = i
	}
	return nil
}

func (r memReportRepo) GetByID(ctx context.Context, reportID id.ID) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[reportID]
	if !ok {
		return nil, notFound("organization_report", reportID)
	}
	for _, e := range r.entries {
		if e.ReportID == reportID {
			rep.Reports = append(rep.Reports, e)
		}
	}
	for _, p := range r.partners {
		if p.ReportID == reportID {
			rep.Partners = append(rep.Partners, p)
		}
	}
	for _, i := range r.investors {
		if i.ReportID == reportID {
			rep.Investors = append(rep.Investors, i)
		}
	}
	return &rep, nil
}

func (r memReportRepo) UpdateEntry(ctx context.Context, e *ReportEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("report.entry"); err != nil {
		return err
	}
	r.entries[e.ID] = *e
	return nil
}

func (r memReportRepo) UpdatePartner(ctx context.Context, p *Partner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("report.partner"); err != nil {
		return err
	}
	r.partners[p.ID] = *p
	return nil
}

func (r memReportRepo) UpdateInvestor(ctx context.Context, i *Investor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("report.investor"); err != nil {
		return err
	}
	r.investors[i.ID] = *i
	return nil
}

// --- history ---

type memHistory struct{ *memStore }

func (r memHistory) Record(ctx context.Context, e *HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("history.record"); err != nil {
		return err
	}
	r.history = append(r.history, *e)
	return nil
}

func (r memHistory) List(ctx context.Context, orgID id.ID, limit int) ([]HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastHistoryLimit = limit
	var out []HistoryEntry
	for i := len(r.history) - 1; i >= 0 && len(out) < limit; i-- {
		if r.history[i].OrganizationID == orgID {
			out = append(out, r.history[i])
		}
	}
	return out, nil
}

// --- collaborators ---

type fakeRefs struct {
	mu    sync.Mutex
	calls int
	err   error

	domains     []nomenclature.Domain
	regions     []nomenclature.Region
	cities      []nomenclature.City
	federations []nomenclature.Federation
	coalitions  []nomenclature.Coalition
}

func newFakeRefs() *fakeRefs {
	return &fakeRefs{
		domains:     []nomenclature.Domain{{ID: 1, Name: "Educatie"}, {ID: 2, Name: "Mediu"}},
		regions:     []nomenclature.Region{{ID: 1, Name: "Nord-Vest"}},
		cities:      []nomenclature.City{{ID: 10, Name: "Cluj-Napoca", CountyID: 12}},
		federations: []nomenclature.Federation{{ID: 3, Name: "FDSC", Abbreviation: "FDSC"}},
		coalitions:  []nomenclature.Coalition{{ID: 4, Name: "Coalitia pentru Educatie"}},
	}
}

func pick[T any](rows []T, ids []int, key func(T) int) []T {
	out := []T{}
	for _, r := range rows {
		for _, want := range ids {
			if key(r) == want {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func (f *fakeRefs) hit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeRefs) GetDomains(ctx context.Context, ids []int) ([]nomenclature.Domain, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	return pick(f.domains, ids, func(r nomenclature.Domain) int { return r.ID }), nil
}

func (f *fakeRefs) GetRegions(ctx context.Context, ids []int) ([]nomenclature.Region, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	return pick(f.regions, ids, func(r nomenclature.Region) int { return r.ID }), nil
}

func (f *fakeRefs) GetCities(ctx context.Context, ids []int) ([]nomenclature.City, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	return pick(f.cities, ids, func(r nomenclature.City) int { return r.ID }), nil
}

func (f *fakeRefs) GetFederations(ctx context.Context, ids []int) ([]nomenclature.Federation, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	return pick(f.federations, ids, func(r nomenclature.Federation) int { return r.ID }), nil
}

func (f *fakeRefs) GetCoalitions(ctx context.Context, ids []int) ([]nomenclature.Coalition, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	return pick(f.coalitions, ids, func(r nomenclature.Coalition) int { return r.ID }), nil
}

type fakeRegistry struct {
	mu   sync.Mutex
	info FinancialInformation
	err  error
	cui  string
	year int
}

func (f *fakeRegistry) GetFinancialInformation(ctx context.Context, cui string, year int) (FinancialInformation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cui, f.year = cui, year
	if f.err != nil {
		return FinancialInformation{}, f.err
	}
	return f.info, nil
}

type fakeObserver struct {
	results []string
}

func (o *fakeObserver) ObserveOrganizationCreate(result string, seconds float64) {
	o.results = append(o.results, result)
}
