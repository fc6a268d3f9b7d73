package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Cost        float64        `json:"cost"`
	Stock       int            `gorm:"default:0" json:"stock"` // never negative
	IsActive    bool           `json:"is_active"`
	ImageURL    string         `json:"image_url"`
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`
	OwnerID     *uint          `gorm:"index" json:"owner_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category   Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Owner      *Owner      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
