package model

import (
	"time"

	"gorm.io/gorm"
)

type Address struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Recipient string         `gorm:"size:100;not null" json:"recipient"`
	Phone     string         `gorm:"size:30;not null" json:"phone"`
	Detail    string         `gorm:"type:text;not null" json:"detail"`
	Province  string         `gorm:"size:100;not null" json:"province"`
	Postcode  string         `gorm:"size:10;not null" json:"postcode"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}
