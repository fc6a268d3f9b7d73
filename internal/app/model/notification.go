package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationOrderStatus NotificationType = "order_status"
	NotificationPayment     NotificationType = "payment"
	NotificationPromotion   NotificationType = "promotion"
	NotificationSystem      NotificationType = "system"
)

type Notification struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title     string           `gorm:"type:varchar(200);not null" json:"title"`
	Body      string           `gorm:"type:text" json:"body"`
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationSettings holds per-user delivery preferences. MutedTypes
// lists notification types the user opted out of.
type NotificationSettings struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	UserID     uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	PushEnable bool           `gorm:"default:true" json:"push_enable"`
	MutedTypes pq.StringArray `gorm:"type:text[]" json:"muted_types"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (NotificationSettings) TableName() string {
	return "notification_settings"
}

// Muted reports whether the user opted out of the given type.
func (s *NotificationSettings) Muted(t NotificationType) bool {
	for _, m := range s.MutedTypes {
		if m == string(t) {
			return true
		}
	}
	return false
}
