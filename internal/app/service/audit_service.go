package service

import (
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/pkg/logger"
)

type AuditService interface {
	// Record appends an audit entry. Failures are logged and swallowed;
	// auditing never blocks the operation it describes.
	Record(actorKind model.ActorKind, actorID uint, action, detail string)
	List(filter repository.AuditLogFilter) ([]model.AuditLog, int64, error)
}

type auditService struct {
	auditRepo repository.AuditLogRepository
}

func NewAuditService(auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) Record(actorKind model.ActorKind, actorID uint, action, detail string) {
	entry := &model.AuditLog{
		ActorKind: actorKind,
		ActorID:   actorID,
		Action:    action,
		Detail:    detail,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		logger.Error("Failed to record audit entry", err, map[string]interface{}{
			"action": action,
		})
	}
}

func (s *auditService) List(filter repository.AuditLogFilter) ([]model.AuditLog, int64, error) {
	return s.auditRepo.FindAll(filter)
}
