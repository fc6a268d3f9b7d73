package repository

import (
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

type AuditLogFilter struct {
	ActorKind model.ActorKind
	Action    string
	Page      int
	Limit     int
}

type AuditLogRepository interface {
	Create(entry *model.AuditLog) error
	FindAll(filter AuditLogFilter) ([]model.AuditLog, int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(entry *model.AuditLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to write audit log", err, map[string]interface{}{
			"action": entry.Action,
		})
		return err
	}
	return nil
}

func (r *auditLogRepository) FindAll(filter AuditLogFilter) ([]model.AuditLog, int64, error) {
	query := r.db.Model(&model.AuditLog{})
	if filter.ActorKind != "" {
		query = query.Where("actor_kind = ?", filter.ActorKind)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count audit logs", err, nil)
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var entries []model.AuditLog
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		logger.Error("Failed to find audit logs", err, nil)
		return nil, 0, err
	}
	return entries, total, nil
}
