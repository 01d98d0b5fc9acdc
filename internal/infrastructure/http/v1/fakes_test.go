package v1

import (
	"context"
	"errors"

	"onghub/internal/core/apperror"
	appctx "onghub/internal/core/context"
	"onghub/internal/core/id"
	"onghub/internal/domain"
	"onghub/internal/domain/application"
	"onghub/internal/domain/feedback"
	"onghub/internal/domain/nomenclature"
	"onghub/internal/domain/organization"
)

type staticTokens map[string]*appctx.UserContext

func (t staticTokens) ValidateToken(token string) (*appctx.UserContext, error) {
	if u, ok := t[token]; ok {
		return u, nil
	}
	return nil, errors.New("unknown token")
}

type fakeOrganizations struct {
	orgs      map[id.ID]*organization.Organization
	created   *organization.CreateInput
	patched   organization.Patch
	createErr error
}

func (f *fakeOrganizations) Create(_ context.Context, in organization.CreateInput) (*organization.Organization, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &in
	org := &organization.Organization{ID: id.New()}
	f.orgs[org.ID] = org
	return org, nil
}

func (f *fakeOrganizations) FindOne(_ context.Context, orgID id.ID) (*organization.Organization, error) {
	org, ok := f.orgs[orgID]
	if !ok {
		return nil, apperror.NewNotFound("organization", orgID.String()).WithErrorCode(organization.ErrCodeNotFound)
	}
	return org, nil
}

func (f *fakeOrganizations) Update(_ context.Context, orgID id.ID, patch organization.Patch) (*organization.UpdateResult, error) {
	if _, ok := f.orgs[orgID]; !ok {
		return nil, apperror.NewNotFound("organization", orgID.String()).WithErrorCode(organization.ErrCodeUpdateNotFound)
	}
	f.patched = patch
	if patch == nil {
		return nil, nil
	}
	if lp, ok := patch.(organization.LegalPatch); ok && lp.Directors != nil && len(lp.Directors) < organization.MinDirectors {
		return nil, apperror.NewValidation("at least 3 directors are required").WithErrorCode(organization.ErrCodeDirectorsMinimum)
	}
	return &organization.UpdateResult{Facet: patch.Facet(), General: &organization.General{Name: "patched"}}, nil
}

func (f *fakeOrganizations) History(_ context.Context, orgID id.ID, _ int) ([]organization.HistoryEntry, error) {
	return []organization.HistoryEntry{{ID: id.New(), OrganizationID: orgID, Facet: organization.FacetOrganization, Action: organization.ActionCreate}}, nil
}

type fakeApplications struct {
	apps map[id.ID]*application.Application
}

func (f *fakeApplications) Create(_ context.Context, in application.CreateInput) (*application.Application, error) {
	if in.Type != application.TypeIndependent && in.LoginLink == nil {
		return nil, apperror.NewValidation("loginLink is required").WithErrorCode(application.ErrCodeMissingLoginLink)
	}
	app := &application.Application{ID: id.New(), Name: in.Name, Type: in.Type}
	f.apps[app.ID] = app
	return app, nil
}

func (f *fakeApplications) FindOne(_ context.Context, appID id.ID) (*application.Application, error) {
	app, ok := f.apps[appID]
	if !ok {
		return nil, apperror.NewNotFound("application", appID.String()).WithErrorCode(application.ErrCodeNotFound)
	}
	return app, nil
}

func (f *fakeApplications) FindAll(_ context.Context, filter domain.ListFilter) (domain.ListResult[application.Application], error) {
	items := make([]application.Application, 0, len(f.apps))
	for _, a := range f.apps {
		items = append(items, *a)
	}
	return domain.ListResult[application.Application]{Items: items, TotalCount: int64(len(items)), Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (f *fakeApplications) Update(ctx context.Context, appID id.ID, _ application.UpdatePatch) (*application.Application, error) {
	return f.FindOne(ctx, appID)
}

func (f *fakeApplications) FindAllForOng(context.Context, id.ID) ([]application.WithOngStatus, error) {
	return nil, nil
}

func (f *fakeApplications) FindOneForOng(ctx context.Context, _ id.ID, appID id.ID) (*application.WithOngStatus, error) {
	app, err := f.FindOne(ctx, appID)
	if err != nil {
		return nil, err
	}
	return &application.WithOngStatus{Application: *app}, nil
}

func (f *fakeApplications) RequestAccess(_ context.Context, orgID, appID id.ID) (*application.OngApplication, error) {
	return &application.OngApplication{ID: id.New(), OrganizationID: orgID, ApplicationID: appID, Status: application.StatusPending}, nil
}

func (f *fakeApplications) SetStatus(_ context.Context, orgID, appID id.ID, status application.Status) (*application.OngApplication, error) {
	if !application.StatusPending.CanTransition(status) {
		return nil, apperror.NewBusinessRule(application.ErrCodeInvalidTransition, "invalid status transition")
	}
	return &application.OngApplication{OrganizationID: orgID, ApplicationID: appID, Status: status}, nil
}

type fakeFeedback struct {
	removed []id.ID
}

func (f *fakeFeedback) Create(_ context.Context, in feedback.CreateInput) (*feedback.Feedback, error) {
	if in.Rating < feedback.MinRating || in.Rating > feedback.MaxRating {
		return nil, apperror.NewValidation("rating must be between 1 and 5").WithErrorCode(feedback.ErrCodeInvalidRating)
	}
	return &feedback.Feedback{ID: id.New(), Rating: in.Rating, FullName: in.FullName}, nil
}

func (f *fakeFeedback) FindManyPaginated(_ context.Context, _ id.ID, filter domain.ListFilter) (domain.ListResult[feedback.Feedback], error) {
	return domain.ListResult[feedback.Feedback]{Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (f *fakeFeedback) FindOne(_ context.Context, feedbackID id.ID) (*feedback.Feedback, error) {
	return nil, apperror.NewNotFound("feedback", feedbackID.String()).WithErrorCode(feedback.ErrCodeNotFound)
}

func (f *fakeFeedback) Remove(_ context.Context, feedbackID id.ID) error {
	f.removed = append(f.removed, feedbackID)
	return nil
}

type fakeNomenclature struct {
	countyID *int
	search   string
}

func (f *fakeNomenclature) ListCounties(context.Context) ([]nomenclature.County, error) {
	return []nomenclature.County{{ID: 1, Name: "Cluj"}}, nil
}

func (f *fakeNomenclature) ListCities(_ context.Context, countyID *int, search string) ([]nomenclature.City, error) {
	f.countyID, f.search = countyID, search
	return nil, nil
}

func (f *fakeNomenclature) ListDomains(context.Context) ([]nomenclature.Domain, error) {
	return []nomenclature.Domain{{ID: 1, Name: "Educatie"}}, nil
}

func (f *fakeNomenclature) ListRegions(context.Context) ([]nomenclature.Region, error) {
	return nil, nil
}

func (f *fakeNomenclature) ListFederations(context.Context) ([]nomenclature.Federation, error) {
	return nil, nil
}

func (f *fakeNomenclature) ListCoalitions(context.Context) ([]nomenclature.Coalition, error) {
	return nil, errors.New("connection reset")
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }
