package maintenance

import (
	"context"
	"testing"
	"time"

	"go-reports/internal/features/dashboard"
	"go-reports/internal/features/layout"
	"go-reports/internal/features/share"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- fakes ---

type fakeDashboardRepo struct {
	published []dashboard.Dashboard
}

func (f *fakeDashboardRepo) Create(_ context.Context, d *dashboard.Dashboard) error { return nil }

func (f *fakeDashboardRepo) Get(_ context.Context, tenantID, id primitive.ObjectID) (*dashboard.Dashboard, error) {
	return nil, dashboard.ErrNotFound
}

func (f *fakeDashboardRepo) List(_ context.Context, tenantID primitive.ObjectID) ([]dashboard.Dashboard, error) {
	return nil, nil
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
	return f.published, nil
}

type fakeVersionRepo struct {
	versions map[primitive.ObjectID]*dashboard.Version
}

func (f *fakeVersionRepo) Create(_ context.Context, v *dashboard.Version) error { return nil }

func (f *fakeVersionRepo) Latest(_ context.Context, dashboardID primitive.ObjectID) (*dashboard.Version, error) {
	return nil, dashboard.ErrVersionNotFound
}

func (f *fakeVersionRepo) GetByID(_ context.Context, dashboardID, id primitive.ObjectID) (*dashboard.Version, error) {
	v, ok := f.versions[id]
	if !ok || v.DashboardID != dashboardID {
		return nil, dashboard.ErrVersionNotFound
	}
	return v, nil
}

func (f *fakeVersionRepo) List(_ context.Context, dashboardID primitive.ObjectID) ([]dashboard.Version, error) {
	return nil, nil
}

func (f *fakeVersionRepo) EnsureIndexes(_ context.Context) error { return nil }

type fakeShareRepo struct {
	shares []*share.PublicShare
}

func (f *fakeShareRepo) ReplaceActive(_ context.Context, newShare *share.PublicShare) error {
	return nil
}

func (f *fakeShareRepo) RevokeActive(_ context.Context, tenantID, dashboardID primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (f *fakeShareRepo) FindActiveByDashboard(_ context.Context, tenantID, dashboardID primitive.ObjectID) (*share.PublicShare, error) {
	return nil, share.ErrNotFound
}

func (f *fakeShareRepo) FindActiveByTokenHash(_ context.Context, tokenHash string) (*share.PublicShare, error) {
	return nil, share.ErrNotFound
}

func (f *fakeShareRepo) ListByDashboard(_ context.Context, tenantID, dashboardID primitive.ObjectID) ([]share.PublicShare, error) {
	return nil, nil
}

func (f *fakeShareRepo) PurgeRevokedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []*share.PublicShare
	var purged int64
	for _, s := range f.shares {
		if s.Status == share.StatusRevoked && s.RevokedAt != nil && s.RevokedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, s)
	}
	f.shares = kept
	return purged, nil
}

func (f *fakeShareRepo) EnsureIndexes(_ context.Context) error { return nil }

// --- helpers ---

func publishedDashboard(versionRepo *fakeVersionRepo, doc *layout.Document) dashboard.Dashboard {
	versionID := primitive.NewObjectID()
	dashID := primitive.NewObjectID()
	versionRepo.versions[versionID] = &dashboard.Version{
		ID:            versionID,
		DashboardID:   dashID,
		VersionNumber: 1,
		Layout:        doc,
	}
	return dashboard.Dashboard{
		ID:                 dashID,
		TenantID:           primitive.NewObjectID(),
		Status:             dashboard.StatusPublished,
		PublishedVersionID: &versionID,
	}
}

func healthyDoc() *layout.Document {
	return &layout.Document{
		Pages: []layout.Page{{
			ID:   "p1",
			Name: "Overview",
			Widgets: []layout.Widget{
				{ID: "w1", Type: layout.WidgetTypeKPI, Query: &layout.Query{Metrics: []string{"spend"}}},
			},
		}},
	}
}

func blockedDoc() *layout.Document {
	return &layout.Document{
		Pages: []layout.Page{{
			ID:   "p1",
			Name: "Overview",
			Widgets: []layout.Widget{
				{ID: "w1", Type: layout.WidgetTypeBar, Query: &layout.Query{Dimensions: []string{"date"}}},
			},
		}},
	}
}

// --- tests ---

func TestHealthSweepCountsBlockedDashboards(t *testing.T) {
	versionRepo := &fakeVersionRepo{versions: map[primitive.ObjectID]*dashboard.Version{}}
	dashRepo := &fakeDashboardRepo{}
	dashRepo.published = []dashboard.Dashboard{
		publishedDashboard(versionRepo, healthyDoc()),
		publishedDashboard(versionRepo, blockedDoc()),
		publishedDashboard(versionRepo, healthyDoc()),
	}

	s := &SchedulerImpl{
		DashboardRepo: dashRepo,
		VersionRepo:   versionRepo,
		ShareRepo:     &fakeShareRepo{},
		Logger:        zap.NewNop(),
	}

	flagged, err := s.HealthSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, flagged)
}

func TestHealthSweepToleratesMissingVersion(t *testing.T) {
	versionRepo := &fakeVersionRepo{versions: map[primitive.ObjectID]*dashboard.Version{}}
	orphanVersionID := primitive.NewObjectID()
	dashRepo := &fakeDashboardRepo{
		published: []dashboard.Dashboard{{
			ID:                 primitive.NewObjectID(),
			Status:             dashboard.StatusPublished,
			PublishedVersionID: &orphanVersionID,
		}},
	}

	s := &SchedulerImpl{
		DashboardRepo: dashRepo,
		VersionRepo:   versionRepo,
		ShareRepo:     &fakeShareRepo{},
		Logger:        zap.NewNop(),
	}

	flagged, err := s.HealthSweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, flagged)
}

func TestPurgeDropsOnlyOldRevokedShares(t *testing.T) {
	now := time.Now()
	old := now.Add(-revokedShareRetention - time.Hour)
	recent := now.Add(-time.Hour)

	shareRepo := &fakeShareRepo{shares: []*share.PublicShare{
		{Status: share.StatusRevoked, RevokedAt: &old},
		{Status: share.StatusRevoked, RevokedAt: &recent},
		{Status: share.StatusActive},
	}}

	s := &SchedulerImpl{
		DashboardRepo: &fakeDashboardRepo{},
		VersionRepo:   &fakeVersionRepo{versions: map[primitive.ObjectID]*dashboard.Version{}},
		ShareRepo:     shareRepo,
		Logger:        zap.NewNop(),
	}

	purged, err := s.PurgeRevokedShares(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	assert.Len(t, shareRepo.shares, 2)
}

func TestSchedulerStartAndStop(t *testing.T) {
	s := &SchedulerImpl{
		DashboardRepo: &fakeDashboardRepo{},
		VersionRepo:   &fakeVersionRepo{versions: map[primitive.ObjectID]*dashboard.Version{}},
		ShareRepo:     &fakeShareRepo{},
		Logger:        zap.NewNop(),
	}

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop())
}
