package service

import (
	"errors"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/internal/websocket"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationSettingsInput struct {
	PushEnable *bool
	MutedTypes *[]string
}

type NotificationService interface {
	// Notify persists a notification and pushes it to live sessions.
	// A muted type is dropped silently. Failures are logged, never
	// surfaced: notifications must not break the calling operation.
	Notify(userID uint, notificationType model.NotificationType, title, body string)
	List(userID uint) ([]model.Notification, error)
	UnreadCount(userID uint) (int64, error)
	MarkRead(userID, notificationID uint) error
	MarkAllRead(userID uint) error
	GetSettings(userID uint) (*model.NotificationSettings, error)
	UpdateSettings(userID uint, input NotificationSettingsInput) (*model.NotificationSettings, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	hub              *websocket.Hub
}

// NewNotificationService wires the repository and the push hub. hub may
// be nil in tests; pushes are skipped then.
func NewNotificationService(notificationRepo repository.NotificationRepository, hub *websocket.Hub) NotificationService {
	return &notificationService{notificationRepo: notificationRepo, hub: hub}
}

func (s *notificationService) Notify(userID uint, notificationType model.NotificationType, title, body string) {
	settings, err := s.notificationRepo.FindSettings(userID)
	if err == nil && settings.Muted(notificationType) {
		logger.Debug("Notification muted by user settings", map[string]interface{}{
			"user_id": userID,
			"type":    notificationType,
		})
		return
	}

	notification := &model.Notification{
		UserID: userID,
		Type:   notificationType,
		Title:  title,
		Body:   body,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		logger.Error("Failed to persist notification", err, map[string]interface{}{
			"user_id": userID,
			"type":    notificationType,
		})
		return
	}

	if s.hub == nil {
		return
	}
	if err == nil && !settings.PushEnable {
		return
	}
	if !s.hub.IsUserOnline(userID) {
		logger.Debug("User offline, notification stored only", map[string]interface{}{
			"user_id": userID,
		})
		return
	}
	if pushErr := s.hub.SendToUser(userID, notification); pushErr != nil {
		logger.Warn("Failed to push notification", map[string]interface{}{
			"user_id": userID,
			"error":   pushErr.Error(),
		})
	}
}

func (s *notificationService) List(userID uint) ([]model.Notification, error) {
	return s.notificationRepo.FindLatestByUser(userID)
}

func (s *notificationService) UnreadCount(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

func (s *notificationService) MarkRead(userID, notificationID uint) error {
	err := s.notificationRepo.MarkRead(userID, notificationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *notificationService) MarkAllRead(userID uint) error {
	return s.notificationRepo.MarkAllRead(userID)
}

// GetSettings returns the user's settings, creating defaults on first
// access.
func (s *notificationService) GetSettings(userID uint) (*model.NotificationSettings, error) {
	settings, err := s.notificationRepo.FindSettings(userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = &model.NotificationSettings{
		UserID:     userID,
		PushEnable: true,
	}
	if err := s.notificationRepo.SaveSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *notificationService) UpdateSettings(userID uint, input NotificationSettingsInput) (*model.NotificationSettings, error) {
	settings, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	if input.PushEnable != nil {
		settings.PushEnable = *input.PushEnable
	}
	if input.MutedTypes != nil {
		settings.MutedTypes = *input.MutedTypes
	}

	if err := s.notificationRepo.SaveSettings(settings); err != nil {
		return nil, err
	}

	logger.Info("Notification settings updated", map[string]interface{}{
		"user_id": userID,
	})
	return settings, nil
}
