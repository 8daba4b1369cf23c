package audit

import (
	"context"
	"time"

	"go-reports/internal/common/models"

	"go.uber.org/zap"
)

type Service interface {
	// Record writes an audit entry asynchronously; it never fails the request.
	Record(actor models.Actor, action models.AuditAction, entity, entityID, detail string)
}

type ServiceImpl struct {
	Repo   Repository
	Logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImpl{Repo: repo, Logger: logger}
}

func (s *ServiceImpl) Record(actor models.Actor, action models.AuditAction, entity, entityID, detail string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := s.Repo.Create(ctx, &Log{
			TenantID: actor.TenantID,
			Action:   action,
			Entity:   entity,
			EntityID: entityID,
			ActorID:  actor.UserID,
			Detail:   detail,
		})
		if err != nil {
			s.Logger.Warn("failed to write audit log",
				zap.String("action", string(action)),
				zap.String("entity", entity),
				zap.Error(err))
		}
	}()
}
