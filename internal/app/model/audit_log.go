package model

import "time"

type ActorKind string

const (
	ActorUser   ActorKind = "user"
	ActorAdmin  ActorKind = "admin"
	ActorSystem ActorKind = "system"
)

// AuditLog is an append-only record of significant actions. Rows are
// never updated or deleted.
type AuditLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ActorKind ActorKind `gorm:"type:varchar(10);not null;index" json:"actor_kind"`
	ActorID   uint      `gorm:"index" json:"actor_id"` // zero for system actors
	Action    string    `gorm:"type:varchar(100);not null;index" json:"action"`
	Detail    string    `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
