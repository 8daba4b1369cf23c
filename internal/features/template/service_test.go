package template

import (
	"context"
	"sort"
	"testing"
	"time"

	"go-reports/internal/common/api"
	"go-reports/internal/common/models"
	"go-reports/internal/features/dashboard"
	"go-reports/internal/features/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- fakes ---

type fakeTemplateRepo struct {
	templates []*Template
}

func (f *fakeTemplateRepo) Create(_ context.Context, template *Template) error {
	if template.ID.IsZero() {
		template.ID = primitive.NewObjectID()
	}
	template.CreatedAt = time.Now()
	f.templates = append(f.templates, template)
	return nil
}

func (f *fakeTemplateRepo) GetVisible(_ context.Context, tenantID, id primitive.ObjectID) (*Template, error) {
	for _, t := range f.templates {
		if t.ID != id {
			continue
		}
		if t.IsGlobal() || *t.TenantID == tenantID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeTemplateRepo) ListVisible(_ context.Context, tenantID primitive.ObjectID) ([]Template, error) {
	var out []Template
	for _, t := range f.templates {
		if t.IsGlobal() || *t.TenantID == tenantID {
			out = append(out, *t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsGlobal() != out[j].IsGlobal() {
			return out[i].IsGlobal()
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

type fakeDashboardRepo struct {
	items map[primitive.ObjectID]*dashboard.Dashboard
}

func (f *fakeDashboardRepo) Create(_ context.Context, d *dashboard.Dashboard) error {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	f.items[d.ID] = d
	return nil
}

func (f *fakeDashboardRepo) Get(_ context.Context, tenantID, id primitive.ObjectID) (*dashboard.Dashboard, error) {
	item, ok := f.items[id]
	if !ok || item.TenantID != tenantID {
		return nil, dashboard.ErrNotFound
	}
	return item, nil
}

func (f *fakeDashboardRepo) List(_ context.Context, tenantID primitive.ObjectID) ([]dashboard.Dashboard, error) {
	var out []dashboard.Dashboard
	for _, item := range f.items {
		if item.TenantID == tenantID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeDashboardRepo) Delete(_ context.Context, tenantID, id primitive.ObjectID) error {
	return nil
}

func (f *fakeDashboardRepo) SetPublished(_ context.Context, tenantID, id, versionID primitive.ObjectID) error {
	return nil
}

func (f *fakeDashboardRepo) SetPublishedVersion(_ context.Context, tenantID, id, versionID primitive.ObjectID) error {
	return nil
}

func (f *fakeDashboardRepo) SetShareState(_ context.Context, tenantID, id primitive.ObjectID, enabled bool, tokenHash string, sharedAt *time.Time) error {
	return nil
}

func (f *fakeDashboardRepo) ListPublished(_ context.Context) ([]dashboard.Dashboard, error) {
	return nil, nil
}

type fakeVersionRepo struct {
	versions []*dashboard.Version
}

func (f *fakeVersionRepo) Create(_ context.Context, v *dashboard.Version) error {
	for _, existing := range f.versions {
		if existing.DashboardID == v.DashboardID && existing.VersionNumber == v.VersionNumber {
			return dashboard.ErrVersionConflict
		}
	}
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	f.versions = append(f.versions, v)
	return nil
}

func (f *fakeVersionRepo) Latest(_ context.Context, dashboardID primitive.ObjectID) (*dashboard.Version, error) {
	var latest *dashboard.Version
	for _, v := range f.versions {
		if v.DashboardID != dashboardID {
			continue
		}
		if latest == nil || v.VersionNumber > latest.VersionNumber {
			latest = v
		}
	}
	if latest == nil {
		return nil, dashboard.ErrVersionNotFound
	}
	return latest, nil
}

func (f *fakeVersionRepo) GetByID(_ context.Context, dashboardID, id primitive.ObjectID) (*dashboard.Version, error) {
	for _, v := range f.versions {
		if v.ID == id && v.DashboardID == dashboardID {
			return v, nil
		}
	}
	return nil, dashboard.ErrVersionNotFound
}

func (f *fakeVersionRepo) List(_ context.Context, dashboardID primitive.ObjectID) ([]dashboard.Version, error) {
	var out []dashboard.Version
	for _, v := range f.versions {
		if v.DashboardID == dashboardID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVersionRepo) EnsureIndexes(_ context.Context) error { return nil }

type nopAudit struct{}

func (nopAudit) Record(models.Actor, models.AuditAction, string, string, string) {}

// --- helpers ---

func newTestService() (*ServiceImpl, *fakeTemplateRepo, *fakeDashboardRepo) {
	templateRepo := &fakeTemplateRepo{}
	dashRepo := &fakeDashboardRepo{items: map[primitive.ObjectID]*dashboard.Dashboard{}}
	dashService := &dashboard.ServiceImpl{
		Repo:         dashRepo,
		VersionRepo:  &fakeVersionRepo{},
		AuditService: nopAudit{},
		Logger:       zap.NewNop(),
	}
	svc := &ServiceImpl{
		Repo:             templateRepo,
		DashboardService: dashService,
		AuditService:     nopAudit{},
	}
	return svc, templateRepo, dashRepo
}

func testActor() models.Actor {
	return models.Actor{
		TenantID: primitive.NewObjectID(),
		UserID:   primitive.NewObjectID(),
		Roles:    []string{models.RoleAnalyst},
	}
}

func templateLayout() *layout.Document {
	return &layout.Document{
		Pages: []layout.Page{{
			ID:   "p1",
			Name: "Overview",
			Widgets: []layout.Widget{
				{ID: "w1", Type: layout.WidgetTypeKPI, Query: &layout.Query{Metrics: []string{"impressions"}}},
			},
		}},
	}
}

func seedTemplate(t *testing.T, repo *fakeTemplateRepo, tenantID *primitive.ObjectID, name string, doc *layout.Document) *Template {
	t.Helper()
	tmpl := &Template{TenantID: tenantID, Name: name, Layout: doc}
	require.NoError(t, repo.Create(context.Background(), tmpl))
	return tmpl
}

// --- tests ---

func TestListShowsGlobalAndOwnTemplates(t *testing.T) {
	svc, repo, _ := newTestService()
	actor := testActor()
	otherTenant := primitive.NewObjectID()

	seedTemplate(t, repo, nil, "Visão geral", templateLayout())
	seedTemplate(t, repo, &actor.TenantID, "Meu relatório", templateLayout())
	seedTemplate(t, repo, &otherTenant, "Alheio", templateLayout())

	templates, err := svc.List(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, templates, 2)

	// global templates come first
	assert.True(t, templates[0].IsGlobal())
	assert.Equal(t, "Visão geral", templates[0].Name)
	assert.Equal(t, "Meu relatório", templates[1].Name)
}

func TestInstantiateCreatesDraftAtVersionOne(t *testing.T) {
	svc, repo, dashRepo := newTestService()
	actor := testActor()

	tmpl := seedTemplate(t, repo, nil, "Visão geral", templateLayout())
	brandID := primitive.NewObjectID().Hex()

	dash, version, err := svc.Instantiate(context.Background(), actor, tmpl.ID.Hex(), brandID)
	require.NoError(t, err)

	assert.Equal(t, dashboard.StatusDraft, dash.Status)
	assert.Equal(t, tmpl.Name, dash.Name)
	assert.Equal(t, actor.TenantID, dash.TenantID)
	assert.Equal(t, 1, version.VersionNumber)
	assert.Len(t, dashRepo.items, 1)
}

func TestInstantiateHidesOtherTenantsTemplates(t *testing.T) {
	svc, repo, dashRepo := newTestService()
	actor := testActor()
	otherTenant := primitive.NewObjectID()

	tmpl := seedTemplate(t, repo, &otherTenant, "Alheio", templateLayout())

	_, _, err := svc.Instantiate(context.Background(), actor, tmpl.ID.Hex(), primitive.NewObjectID().Hex())
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Empty(t, dashRepo.items)
}

func TestInstantiateRejectsStaleTemplateLayout(t *testing.T) {
	svc, repo, dashRepo := newTestService()
	actor := testActor()

	bad := templateLayout()
	bad.Pages[0].Widgets[0] = layout.Widget{
		ID:    "w1",
		Type:  layout.WidgetTypeTimeseries,
		Query: &layout.Query{Dimensions: []string{"campaign"}},
	}
	tmpl := seedTemplate(t, repo, nil, "Quebrado", bad)

	_, _, err := svc.Instantiate(context.Background(), actor, tmpl.ID.Hex(), primitive.NewObjectID().Hex())
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, api.CodeInvalidLayout, apiErr.Code)
	assert.Empty(t, dashRepo.items)
}

func TestInstantiateRejectsMalformedID(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.Instantiate(context.Background(), testActor(), "nope", primitive.NewObjectID().Hex())
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}
