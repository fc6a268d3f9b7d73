package repository

import (
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

// latestNotificationLimit caps the notification feed per user.
const latestNotificationLimit = 30

type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindLatestByUser(userID uint) ([]model.Notification, error)
	CountUnread(userID uint) (int64, error)
	MarkRead(userID, notificationID uint) error
	MarkAllRead(userID uint) error
	FindSettings(userID uint) (*model.NotificationSettings, error)
	SaveSettings(settings *model.NotificationSettings) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	logger.Debug("Creating notification", map[string]interface{}{
		"user_id": notification.UserID,
		"type":    notification.Type,
	})

	if err := r.db.Create(notification).Error; err != nil {
		logger.Error("Failed to create notification", err, map[string]interface{}{
			"user_id": notification.UserID,
		})
		return err
	}
	return nil
}

func (r *notificationRepository) FindLatestByUser(userID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(latestNotificationLimit).
		Find(&notifications).Error
	if err != nil {
		logger.Error("Failed to find notifications for user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count unread notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(userID, notificationID uint) error {
	result := r.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		logger.Error("Failed to mark notification read", result.Error, map[string]interface{}{
			"notification_id": notificationID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(userID uint) error {
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		logger.Error("Failed to mark all notifications read", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

func (r *notificationRepository) FindSettings(userID uint) (*model.NotificationSettings, error) {
	var settings model.NotificationSettings
	err := r.db.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *notificationRepository) SaveSettings(settings *model.NotificationSettings) error {
	logger.Debug("Saving notification settings", map[string]interface{}{
		"user_id": settings.UserID,
	})

	if err := r.db.Save(settings).Error; err != nil {
		logger.Error("Failed to save notification settings", err, map[string]interface{}{
			"user_id": settings.UserID,
		})
		return err
	}
	return nil
}
