package maintenance

import (
	"context"
	"time"

	"go-reports/internal/features/dashboard"
	"go-reports/internal/features/layout"
	"go-reports/internal/features/share"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	healthSweepSchedule = "@hourly"
	purgeSchedule       = "@daily"

	// Revoked shares are kept around long enough for the audit trail to be
	// cross-checked, then dropped.
	revokedShareRetention = 30 * 24 * time.Hour

	jobTimeout = 5 * time.Minute
)

type Scheduler interface {
	Start(ctx context.Context) error
	Stop() error
}

type SchedulerImpl struct {
	DashboardRepo dashboard.Repository
	VersionRepo   dashboard.VersionRepository
	ShareRepo     share.Repository
	Logger        *zap.Logger

	cron *cron.Cron
}

func NewScheduler(
	dashboardRepo dashboard.Repository,
	versionRepo dashboard.VersionRepository,
	shareRepo share.Repository,
	logger *zap.Logger,
) Scheduler {
	return &SchedulerImpl{
		DashboardRepo: dashboardRepo,
		VersionRepo:   versionRepo,
		ShareRepo:     shareRepo,
		Logger:        logger,
	}
}

func (s *SchedulerImpl) Start(_ context.Context) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(healthSweepSchedule, s.runHealthSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(purgeSchedule, s.runPurge); err != nil {
		return err
	}
	s.cron.Start()
	s.Logger.Info("maintenance scheduler started")
	return nil
}

func (s *SchedulerImpl) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	return nil
}

func (s *SchedulerImpl) runHealthSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	flagged, err := s.HealthSweep(ctx)
	if err != nil {
		s.Logger.Error("health sweep failed", zap.Error(err))
		return
	}
	if flagged > 0 {
		s.Logger.Warn("health sweep flagged published dashboards", zap.Int("flagged", flagged))
	}
}

func (s *SchedulerImpl) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	purged, err := s.PurgeRevokedShares(ctx)
	if err != nil {
		s.Logger.Error("revoked share purge failed", zap.Error(err))
		return
	}
	if purged > 0 {
		s.Logger.Info("purged revoked shares", zap.Int64("count", purged))
	}
}

// HealthSweep re-evaluates every published dashboard's stored layout. Publish
// gates on schema validity, but the structural rules evolve; a layout that was
// fine when published can turn incoherent later. Flagged dashboards stay
// published, the sweep only reports them.
func (s *SchedulerImpl) HealthSweep(ctx context.Context) (int, error) {
	dashboards, err := s.DashboardRepo.ListPublished(ctx)
	if err != nil {
		return 0, err
	}

	flagged := 0
	for _, dash := range dashboards {
		if dash.PublishedVersionID == nil {
			continue
		}
		version, err := s.VersionRepo.GetByID(ctx, dash.ID, *dash.PublishedVersionID)
		if err != nil {
			s.Logger.Warn("published version missing during health sweep",
				zap.String("dashboardId", dash.ID.Hex()),
				zap.Error(err))
			continue
		}
		report := layout.Evaluate(version.Layout)
		if report.DashboardHealth == layout.HealthBlocked {
			flagged++
			s.Logger.Warn("published dashboard failed health sweep",
				zap.String("dashboardId", dash.ID.Hex()),
				zap.String("tenantId", dash.TenantID.Hex()))
		}
	}
	return flagged, nil
}

// PurgeRevokedShares drops REVOKED shares older than the retention window.
func (s *SchedulerImpl) PurgeRevokedShares(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-revokedShareRetention)
	return s.ShareRepo.PurgeRevokedBefore(ctx, cutoff)
}
