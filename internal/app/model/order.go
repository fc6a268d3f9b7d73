package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending" // awaiting payment
	OrderStatusPaid    OrderStatus = "paid"    // payment claim recorded
	OrderStatusCancel  OrderStatus = "cancel"  // cancelled while pending
)

// Order is created atomically at checkout. Everything except status,
// tracking_no and payment_id is immutable after creation.
type Order struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	CartID      uint           `gorm:"not null;index" json:"cart_id"`
	AddressID   uint           `gorm:"not null;index" json:"address_id"`
	TotalPrice  float64        `gorm:"not null" json:"total_price"` // item subtotals + shipping fee
	TotalAmount int            `gorm:"not null" json:"total_amount"`
	Status      OrderStatus    `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	TrackingNo  string         `gorm:"type:varchar(50)" json:"tracking_no,omitempty"`
	PaymentID   *uint          `gorm:"index" json:"payment_id,omitempty"` // nil until a claim is recorded
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User    User          `gorm:"foreignKey:UserID" json:"-"`
	Address Address       `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Items   []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Payment *PaymentClaim `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots the product name and price at purchase time.
// Later catalog edits must not alter historical orders.
type OrderItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	OrderID      uint           `gorm:"not null;index" json:"order_id"`
	ProductID    uint           `gorm:"not null;index" json:"product_id"`
	ProductName  string         `gorm:"not null" json:"product_name"`
	ProductPrice float64        `gorm:"not null" json:"product_price"`
	Quantity     int            `gorm:"not null" json:"quantity"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
