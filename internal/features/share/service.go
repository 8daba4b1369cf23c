package share

import (
	"context"
	"errors"

	"go-reports/internal/common/api"
	"go-reports/internal/common/models"
	"go-reports/internal/config"
	"go-reports/internal/features/audit"
	"go-reports/internal/features/dashboard"
	"go-reports/internal/features/layout"
	"go-reports/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, actor models.Actor, dashboardID string) (*CreateResponse, error)
	Rotate(ctx context.Context, actor models.Actor, dashboardID string) (*CreateResponse, error)
	Revoke(ctx context.Context, actor models.Actor, dashboardID string) error
	List(ctx context.Context, actor models.Actor, dashboardID string) ([]PublicShare, error)
	// Active returns the dashboard's current ACTIVE share, 404 when sharing is
	// off. The plaintext token is not recoverable from it.
	Active(ctx context.Context, actor models.Actor, dashboardID string) (*PublicShare, error)
	// ResolveToken is the public-reader contract: hash the token, find the
	// ACTIVE share, and re-check that the dashboard is still published and
	// healthy before handing out the layout.
	ResolveToken(ctx context.Context, token string) (*layout.Document, error)
}

type ServiceImpl struct {
	Repo          Repository
	DashboardRepo dashboard.Repository
	VersionRepo   dashboard.VersionRepository
	AuditService  audit.Service
	Config        *config.Config
	Logger        *zap.Logger
}

func NewService(
	repo Repository,
	dashboardRepo dashboard.Repository,
	versionRepo dashboard.VersionRepository,
	auditService audit.Service,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &ServiceImpl{
		Repo:          repo,
		DashboardRepo: dashboardRepo,
		VersionRepo:   versionRepo,
		AuditService:  auditService,
		Config:        cfg,
		Logger:        logger,
	}
}

func (s *ServiceImpl) Create(ctx context.Context, actor models.Actor, dashboardID string) (*CreateResponse, error) {
	resp, err := s.issue(ctx, actor, dashboardID)
	if err != nil {
		return nil, err
	}
	s.AuditService.Record(actor, models.AuditActionShare, "dashboard", dashboardID, "")
	return resp, nil
}

// Rotate revokes the current token and issues a new one; at no observable
// point do two ACTIVE shares exist.
func (s *ServiceImpl) Rotate(ctx context.Context, actor models.Actor, dashboardID string) (*CreateResponse, error) {
	resp, err := s.issue(ctx, actor, dashboardID)
	if err != nil {
		return nil, err
	}
	s.AuditService.Record(actor, models.AuditActionRotate, "dashboard", dashboardID, "")
	return resp, nil
}

// issue runs the share gates and atomically replaces any ACTIVE share.
func (s *ServiceImpl) issue(ctx context.Context, actor models.Actor, dashboardID string) (*CreateResponse, error) {
	if !actor.CanPublish() {
		return nil, api.Forbidden("role cannot share dashboards")
	}

	dash, version, err := s.publishedVersion(ctx, actor.TenantID, dashboardID)
	if err != nil {
		return nil, err
	}

	report := layout.Evaluate(version.Layout)
	if report.DashboardHealth == layout.HealthBlocked {
		return nil, api.NewError(422, api.CodeDashboardBlocked, "dashboard layout has blocked widgets")
	}

	token := utils.NewShareToken()
	newShare := &PublicShare{
		TenantID:    actor.TenantID,
		DashboardID: dash.ID,
		TokenHash:   utils.HashToken(token),
		CreatedBy:   actor.UserID,
	}
	if err := s.Repo.ReplaceActive(ctx, newShare); err != nil {
		return nil, err
	}

	sharedAt := newShare.CreatedAt
	if err := s.DashboardRepo.SetShareState(ctx, actor.TenantID, dash.ID, true, newShare.TokenHash, &sharedAt); err != nil {
		s.Logger.Warn("failed to mirror share state on dashboard",
			zap.String("dashboardId", dash.ID.Hex()), zap.Error(err))
	}

	return &CreateResponse{
		Share:     newShare,
		PublicURL: s.Config.PublicBaseURL + "/public/reports/" + token,
	}, nil
}

func (s *ServiceImpl) Revoke(ctx context.Context, actor models.Actor, dashboardID string) error {
	if !actor.CanPublish() {
		return api.Forbidden("role cannot share dashboards")
	}

	dashID, err := primitive.ObjectIDFromHex(dashboardID)
	if err != nil {
		return api.NotFound("dashboard not found")
	}
	dash, err := s.DashboardRepo.Get(ctx, actor.TenantID, dashID)
	if err != nil {
		return mapNotFound(err)
	}

	if _, err := s.Repo.RevokeActive(ctx, actor.TenantID, dash.ID); err != nil {
		return err
	}
	if err := s.DashboardRepo.SetShareState(ctx, actor.TenantID, dash.ID, false, "", nil); err != nil {
		s.Logger.Warn("failed to mirror share state on dashboard",
			zap.String("dashboardId", dash.ID.Hex()), zap.Error(err))
	}

	s.AuditService.Record(actor, models.AuditActionRevoke, "dashboard", dashboardID, "")
	return nil
}

func (s *ServiceImpl) List(ctx context.Context, actor models.Actor, dashboardID string) ([]PublicShare, error) {
	dashID, err := primitive.ObjectIDFromHex(dashboardID)
	if err != nil {
		return nil, api.NotFound("dashboard not found")
	}
	if _, err := s.DashboardRepo.Get(ctx, actor.TenantID, dashID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.Repo.ListByDashboard(ctx, actor.TenantID, dashID)
}

func (s *ServiceImpl) Active(ctx context.Context, actor models.Actor, dashboardID string) (*PublicShare, error) {
	dashID, err := primitive.ObjectIDFromHex(dashboardID)
	if err != nil {
		return nil, api.NotFound("dashboard not found")
	}
	if _, err := s.DashboardRepo.Get(ctx, actor.TenantID, dashID); err != nil {
		return nil, mapNotFound(err)
	}
	sh, err := s.Repo.FindActiveByDashboard(ctx, actor.TenantID, dashID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return sh, nil
}

func (s *ServiceImpl) ResolveToken(ctx context.Context, token string) (*layout.Document, error) {
	sh, err := s.Repo.FindActiveByTokenHash(ctx, utils.HashToken(token))
	if err != nil {
		return nil, mapNotFound(err)
	}

	dash, version, err := s.publishedVersionByID(ctx, sh.TenantID, sh.DashboardID)
	if err != nil {
		// The anonymous reader learns nothing beyond "no such report".
		return nil, api.NotFound("report not found")
	}

	report := layout.Evaluate(version.Layout)
	if report.DashboardHealth == layout.HealthBlocked {
		s.Logger.Info("blocked dashboard refused on public read",
			zap.String("dashboardId", dash.ID.Hex()),
			zap.String("tenantId", dash.TenantID.Hex()))
		return nil, api.NotFound("report not found")
	}

	return layout.Normalize(version.Layout), nil
}

func (s *ServiceImpl) publishedVersion(ctx context.Context, tenantID primitive.ObjectID, dashboardID string) (*dashboard.Dashboard, *dashboard.Version, error) {
	dashID, err := primitive.ObjectIDFromHex(dashboardID)
	if err != nil {
		return nil, nil, api.NotFound("dashboard not found")
	}
	return s.publishedVersionByID(ctx, tenantID, dashID)
}

func (s *ServiceImpl) publishedVersionByID(ctx context.Context, tenantID, dashID primitive.ObjectID) (*dashboard.Dashboard, *dashboard.Version, error) {
	dash, err := s.DashboardRepo.Get(ctx, tenantID, dashID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}
	if dash.Status != dashboard.StatusPublished || dash.PublishedVersionID == nil {
		return nil, nil, api.NewError(400, api.CodeDashboardNotPublished, "dashboard is not published")
	}
	version, err := s.VersionRepo.GetByID(ctx, dash.ID, *dash.PublishedVersionID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}
	return dash, version, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, dashboard.ErrNotFound) || errors.Is(err, dashboard.ErrVersionNotFound) {
		return api.NotFound(err.Error())
	}
	return err
}
