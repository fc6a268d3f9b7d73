package model

import (
	"time"

	"gorm.io/gorm"
)

// Owner is the merchant/brand a product is sold on behalf of.
type Owner struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Contact   string         `json:"contact"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Products []Product `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Owner) TableName() string {
	return "owners"
}
