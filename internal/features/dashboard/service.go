package dashboard

import (
	"context"
	"errors"

	"go-reports/internal/common/api"
	"go-reports/internal/common/models"
	"go-reports/internal/features/audit"
	"go-reports/internal/features/layout"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// createVersionAttempts bounds the duplicate-key retry loop when two writers
// race for the same version number.
const createVersionAttempts = 3

type CreateRequest struct {
	BrandID string           `json:"brand_id"`
	GroupID string           `json:"group_id,omitempty"`
	Name    string           `json:"name"`
	Layout  *layout.Document `json:"layout_json"`
}

type Service interface {
	Create(ctx context.Context, actor models.Actor, req CreateRequest) (*Dashboard, *Version, error)
	Get(ctx context.Context, actor models.Actor, id string) (*Dashboard, error)
	List(ctx context.Context, actor models.Actor) ([]Dashboard, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
	Clone(ctx context.Context, actor models.Actor, id string) (*Dashboard, *Version, error)
	CreateVersion(ctx context.Context, actor models.Actor, id string, doc *layout.Document) (*Version, error)
	ListVersions(ctx context.Context, actor models.Actor, id string) ([]Version, error)
	Publish(ctx context.Context, actor models.Actor, id, versionID string) (*Dashboard, error)
	Rollback(ctx context.Context, actor models.Actor, id, versionID string) (*Dashboard, error)
	AuditTrail(ctx context.Context, actor models.Actor, id string) ([]audit.Log, error)
	ExportVersions(ctx context.Context, actor models.Actor, id string) ([]byte, string, error)
}

type ServiceImpl struct {
	Repo         Repository
	VersionRepo  VersionRepository
	AuditRepo    audit.Repository
	AuditService audit.Service
	Logger       *zap.Logger
}

func NewService(repo Repository, versionRepo VersionRepository, auditRepo audit.Repository, auditService audit.Service, logger *zap.Logger) Service {
	return &ServiceImpl{
		Repo:         repo,
		VersionRepo:  versionRepo,
		AuditRepo:    auditRepo,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *ServiceImpl) Create(ctx context.Context, actor models.Actor, req CreateRequest) (*Dashboard, *Version, error) {
	if req.Name == "" {
		return nil, nil, api.NewError(400, "INVALID_REQUEST", "name is required")
	}
	brandID, err := primitive.ObjectIDFromHex(req.BrandID)
	if err != nil {
		return nil, nil, api.NewError(400, "INVALID_REQUEST", "invalid brand id")
	}

	// Validation happens before any row exists; a rejected layout leaves
	// no dashboard behind.
	if req.Layout == nil {
		return nil, nil, api.InvalidLayout("layout document is required")
	}
	if err := layout.Validate(req.Layout); err != nil {
		return nil, nil, api.InvalidLayout(err.Error())
	}

	dash := &Dashboard{
		TenantID:  actor.TenantID,
		BrandID:   brandID,
		Name:      req.Name,
		Status:    StatusDraft,
		CreatedBy: actor.UserID,
	}
	if req.GroupID != "" {
		groupID, err := primitive.ObjectIDFromHex(req.GroupID)
		if err != nil {
			return nil, nil, api.NewError(400, "INVALID_REQUEST", "invalid group id")
		}
		dash.GroupID = &groupID
	}

	if err := s.Repo.Create(ctx, dash); err != nil {
		return nil, nil, err
	}

	version, err := s.insertNextVersion(ctx, dash.ID, req.Layout, actor.UserID)
	if err != nil {
		return nil, nil, err
	}

	s.AuditService.Record(actor, models.AuditActionCreate, "dashboard", dash.ID.Hex(), dash.Name)
	return dash, version, nil
}

func (s *ServiceImpl) Get(ctx context.Context, actor models.Actor, id string) (*Dashboard, error) {
	dashID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	dash, err := s.Repo.Get(ctx, actor.TenantID, dashID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return dash, nil
}

func (s *ServiceImpl) List(ctx context.Context, actor models.Actor) ([]Dashboard, error) {
	return s.Repo.List(ctx, actor.TenantID)
}

func (s *ServiceImpl) Delete(ctx context.Context, actor models.Actor, id string) error {
	dashID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, actor.TenantID, dashID); err != nil {
		return mapNotFound(err)
	}
	s.AuditService.Record(actor, models.AuditActionDelete, "dashboard", id, "")
	return nil
}

// Clone creates a sibling DRAFT dashboard whose version 1 copies the source's
// latest layout.
func (s *ServiceImpl) Clone(ctx context.Context, actor models.Actor, id string) (*Dashboard, *Version, error) {
	dashID, err := parseID(id)
	if err != nil {
		return nil, nil, err
	}
	source, err := s.Repo.Get(ctx, actor.TenantID, dashID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}
	latest, err := s.VersionRepo.Latest(ctx, source.ID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}

	clone := &Dashboard{
		TenantID:  actor.TenantID,
		BrandID:   source.BrandID,
		GroupID:   source.GroupID,
		Name:      source.Name + CloneSuffix,
		Status:    StatusDraft,
		CreatedBy: actor.UserID,
	}
	if err := s.Repo.Create(ctx, clone); err != nil {
		return nil, nil, err
	}

	version, err := s.insertNextVersion(ctx, clone.ID, latest.Layout, actor.UserID)
	if err != nil {
		return nil, nil, err
	}

	s.AuditService.Record(actor, models.AuditActionClone, "dashboard", clone.ID.Hex(), "cloned from "+source.ID.Hex())
	return clone, version, nil
}

func (s *ServiceImpl) CreateVersion(ctx context.Context, actor models.Actor, id string, doc *layout.Document) (*Version, error) {
	dashID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	dash, err := s.Repo.Get(ctx, actor.TenantID, dashID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if doc == nil {
		return nil, api.InvalidLayout("layout document is required")
	}
	if err := layout.Validate(doc); err != nil {
		return nil, api.InvalidLayout(err.Error())
	}

	version, err := s.insertNextVersion(ctx, dash.ID, doc, actor.UserID)
	if err != nil {
		return nil, err
	}

	s.AuditService.Record(actor, models.AuditActionVersion, "dashboard", id, "")
	return version, nil
}

func (s *ServiceImpl) ListVersions(ctx context.Context, actor models.Actor, id string) ([]Version, error) {
	dashID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.Repo.Get(ctx, actor.TenantID, dashID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.VersionRepo.List(ctx, dashID)
}

// Publish marks a version as the externally visible one. The target layout is
// re-validated here: it was validated when the version was written, but the
// rules may have changed since.
func (s *ServiceImpl) Publish(ctx context.Context, actor models.Actor, id, versionID string) (*Dashboard, error) {
	dash, version, err := s.resolvePublication(ctx, actor, id, versionID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SetPublished(ctx, actor.TenantID, dash.ID, version.ID); err != nil {
		return nil, mapNotFound(err)
	}

	s.Logger.Info("dashboard published",
		zap.String("dashboardId", dash.ID.Hex()),
		zap.String("tenantId", actor.TenantID.Hex()),
		zap.Int("versionNumber", version.VersionNumber))
	s.AuditService.Record(actor, models.AuditActionPublish, "dashboard", id, version.ID.Hex())

	return s.Repo.Get(ctx, actor.TenantID, dash.ID)
}

// Rollback repoints the published version; status is left as-is.
func (s *ServiceImpl) Rollback(ctx context.Context, actor models.Actor, id, versionID string) (*Dashboard, error) {
	dash, version, err := s.resolvePublication(ctx, actor, id, versionID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SetPublishedVersion(ctx, actor.TenantID, dash.ID, version.ID); err != nil {
		return nil, mapNotFound(err)
	}

	s.AuditService.Record(actor, models.AuditActionRollback, "dashboard", id, version.ID.Hex())
	return s.Repo.Get(ctx, actor.TenantID, dash.ID)
}

// resolvePublication runs the shared publish/rollback gates in order:
// permission, dashboard lookup, version lookup, schema re-validation.
func (s *ServiceImpl) resolvePublication(ctx context.Context, actor models.Actor, id, versionID string) (*Dashboard, *Version, error) {
	if !actor.CanPublish() {
		return nil, nil, api.Forbidden("role cannot publish dashboards")
	}

	dashID, err := parseID(id)
	if err != nil {
		return nil, nil, err
	}
	dash, err := s.Repo.Get(ctx, actor.TenantID, dashID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}

	verID, err := primitive.ObjectIDFromHex(versionID)
	if err != nil {
		return nil, nil, api.NotFound("version not found")
	}
	version, err := s.VersionRepo.GetByID(ctx, dash.ID, verID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}

	if err := layout.Validate(version.Layout); err != nil {
		return nil, nil, api.InvalidLayout(err.Error())
	}

	return dash, version, nil
}

// AuditTrail lists the recorded actions for one dashboard, newest first.
func (s *ServiceImpl) AuditTrail(ctx context.Context, actor models.Actor, id string) ([]audit.Log, error) {
	dashID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.Repo.Get(ctx, actor.TenantID, dashID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.AuditRepo.ListByEntity(ctx, actor.TenantID, "dashboard", dashID.Hex())
}

// insertNextVersion assigns the next version number under the unique index on
// (dashboard_id, version_number), retrying when a concurrent writer wins.
func (s *ServiceImpl) insertNextVersion(ctx context.Context, dashboardID primitive.ObjectID, doc *layout.Document, authorID primitive.ObjectID) (*Version, error) {
	for attempt := 0; attempt < createVersionAttempts; attempt++ {
		next := 1
		latest, err := s.VersionRepo.Latest(ctx, dashboardID)
		if err != nil && !errors.Is(err, ErrVersionNotFound) {
			return nil, err
		}
		if latest != nil {
			next = latest.VersionNumber + 1
		}

		version := &Version{
			DashboardID:   dashboardID,
			VersionNumber: next,
			Layout:        doc,
			CreatedBy:     authorID,
		}
		err = s.VersionRepo.Create(ctx, version)
		if err == nil {
			return version, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
	}
	return nil, ErrVersionConflict
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, api.NotFound("dashboard not found")
	}
	return oid, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrVersionNotFound) {
		return api.NotFound(err.Error())
	}
	return err
}
