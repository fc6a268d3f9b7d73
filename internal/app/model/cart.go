package model

import (
	"time"

	"gorm.io/gorm"
)

type CartStatus string

const (
	CartStatusActive     CartStatus = "active"
	CartStatusCheckedOut CartStatus = "checkedout"
)

// Cart is the per-user shopping cart. A user has at most one active cart
// at a time (by convention the most recently created one); the cart closes
// when its last line item is consumed or removed.
type Cart struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Status      CartStatus     `gorm:"type:varchar(20);default:'active';index" json:"status"`
	TotalAmount int            `gorm:"default:0" json:"total_amount"` // sum of line quantities
	TotalPrice  float64        `gorm:"default:0" json:"total_price"`  // sum of quantity x live price
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User  User       `gorm:"foreignKey:UserID" json:"-"`
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Cart) TableName() string {
	return "carts"
}

type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CartID    uint           `gorm:"not null;index" json:"cart_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Quantity  int            `gorm:"not null;default:1" json:"quantity"` // deleted before it can drop below 1
	Selected  bool           `gorm:"default:true" json:"selected"`       // included in the next checkout
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Cart    Cart    `gorm:"foreignKey:CartID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
