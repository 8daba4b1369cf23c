package template

import (
	"context"
	"errors"

	"go-reports/internal/common/api"
	"go-reports/internal/common/models"
	"go-reports/internal/features/audit"
	"go-reports/internal/features/dashboard"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service interface {
	List(ctx context.Context, actor models.Actor) ([]Template, error)
	// Instantiate creates a new DRAFT dashboard with version 1 taken from the
	// template's layout.
	Instantiate(ctx context.Context, actor models.Actor, templateID, brandID string) (*dashboard.Dashboard, *dashboard.Version, error)
}

type ServiceImpl struct {
	Repo             Repository
	DashboardService dashboard.Service
	AuditService     audit.Service
}

func NewService(repo Repository, dashboardService dashboard.Service, auditService audit.Service) Service {
	return &ServiceImpl{
		Repo:             repo,
		DashboardService: dashboardService,
		AuditService:     auditService,
	}
}

func (s *ServiceImpl) List(ctx context.Context, actor models.Actor) ([]Template, error) {
	return s.Repo.ListVisible(ctx, actor.TenantID)
}

func (s *ServiceImpl) Instantiate(ctx context.Context, actor models.Actor, templateID, brandID string) (*dashboard.Dashboard, *dashboard.Version, error) {
	tmplID, err := primitive.ObjectIDFromHex(templateID)
	if err != nil {
		return nil, nil, api.NotFound("template not found")
	}

	tmpl, err := s.Repo.GetVisible(ctx, actor.TenantID, tmplID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, api.NotFound(err.Error())
		}
		return nil, nil, err
	}

	// The template layout is validated by the dashboard service before any
	// row is written; stale templates surface as INVALID_LAYOUT.
	dash, version, err := s.DashboardService.Create(ctx, actor, dashboard.CreateRequest{
		BrandID: brandID,
		Name:    tmpl.Name,
		Layout:  tmpl.Layout,
	})
	if err != nil {
		return nil, nil, err
	}

	s.AuditService.Record(actor, models.AuditActionInstantiate, "template", templateID, "dashboard "+dash.ID.Hex())
	return dash, version, nil
}
