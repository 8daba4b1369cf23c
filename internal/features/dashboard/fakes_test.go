package dashboard

import (
	"context"
	"sync"
	"time"

	"go-reports/internal/common/models"
	"go-reports/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes so the service is tested without a Mongo instance.

type fakeRepo struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*Dashboard
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[primitive.ObjectID]*Dashboard{}}
}

func (f *fakeRepo) Create(_ context.Context, dashboard *Dashboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if dashboard.ID.IsZero() {
		dashboard.ID = primitive.NewObjectID()
	}
	dashboard.CreatedAt = time.Now()
	dashboard.UpdatedAt = time.Now()
	copied := *dashboard
	f.items[dashboard.ID] = &copied
	return nil
}

func (f *fakeRepo) Get(_ context.Context, tenantID, id primitive.ObjectID) (*Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok || item.TenantID != tenantID {
		return nil, ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context, tenantID primitive.ObjectID) ([]Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Dashboard
	for _, item := range f.items {
		if item.TenantID == tenantID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, tenantID, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok || item.TenantID != tenantID {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) SetPublished(_ context.Context, tenantID, id, versionID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok || item.TenantID != tenantID {
		return ErrNotFound
	}
	item.Status = StatusPublished
	item.PublishedVersionID = &versionID
	item.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRepo) SetPublishedVersion(_ context.Context, tenantID, id, versionID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok || item.TenantID != tenantID {
		return ErrNotFound
	}
	item.PublishedVersionID = &versionID
	item.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRepo) ListPublished(_ context.Context) ([]Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Dashboard
	for _, item := range f.items {
		if item.Status == StatusPublished {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeRepo) SetShareState(_ context.Context, tenantID, id primitive.ObjectID, enabled bool, tokenHash string, sharedAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok || item.TenantID != tenantID {
		return ErrNotFound
	}
	item.SharedEnabled = enabled
	item.SharedTokenHash = tokenHash
	item.SharedAt = sharedAt
	return nil
}

type fakeVersionRepo struct {
	mu       sync.Mutex
	versions []*Version

	// loseRaces makes the next N Creates lose to a simulated concurrent writer
	// that grabs the contested number; alwaysConflict rejects every Create.
	loseRaces      int
	alwaysConflict bool
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{}
}

func (f *fakeVersionRepo) Create(_ context.Context, version *Version) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.alwaysConflict {
		return ErrVersionConflict
	}
	if f.loseRaces > 0 {
		f.loseRaces--
		f.versions = append(f.versions, &Version{
			ID:            primitive.NewObjectID(),
			DashboardID:   version.DashboardID,
			VersionNumber: version.VersionNumber,
			Layout:        version.Layout,
			CreatedAt:     time.Now(),
		})
		return ErrVersionConflict
	}
	for _, v := range f.versions {
		if v.DashboardID == version.DashboardID && v.VersionNumber == version.VersionNumber {
			return ErrVersionConflict
		}
	}
	if version.ID.IsZero() {
		version.ID = primitive.NewObjectID()
	}
	version.CreatedAt = time.Now()
	copied := *version
	f.versions = append(f.versions, &copied)
	return nil
}

func (f *fakeVersionRepo) Latest(_ context.Context, dashboardID primitive.ObjectID) (*Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *Version
	for _, v := range f.versions {
		if v.DashboardID != dashboardID {
			continue
		}
		if latest == nil || v.VersionNumber > latest.VersionNumber {
			latest = v
		}
	}
	if latest == nil {
		return nil, ErrVersionNotFound
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeVersionRepo) GetByID(_ context.Context, dashboardID, id primitive.ObjectID) (*Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.versions {
		if v.ID == id && v.DashboardID == dashboardID {
			copied := *v
			return &copied, nil
		}
	}
	return nil, ErrVersionNotFound
}

func (f *fakeVersionRepo) List(_ context.Context, dashboardID primitive.ObjectID) ([]Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Version
	for _, v := range f.versions {
		if v.DashboardID == dashboardID {
			out = append(out, *v)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].VersionNumber > out[i].VersionNumber {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeVersionRepo) EnsureIndexes(_ context.Context) error { return nil }

type nopAudit struct{}

func (nopAudit) Record(models.Actor, models.AuditAction, string, string, string) {}

type fakeAuditRepo struct {
	mu   sync.Mutex
	logs []audit.Log
}

func (f *fakeAuditRepo) Create(_ context.Context, log *audit.Log) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	log.At = time.Now()
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeAuditRepo) ListByEntity(_ context.Context, tenantID primitive.ObjectID, entity, entityID string) ([]audit.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []audit.Log
	for i := len(f.logs) - 1; i >= 0; i-- {
		log := f.logs[i]
		if log.TenantID == tenantID && log.Entity == entity && log.EntityID == entityID {
			out = append(out, log)
		}
	}
	return out, nil
}
