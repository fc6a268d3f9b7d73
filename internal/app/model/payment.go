package model

import (
	"time"

	"gorm.io/gorm"
)

// PaymentClaim is a user-submitted bank transfer report for an order.
// At most one claim ever succeeds per order.
type PaymentClaim struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	OrderID      uint           `gorm:"not null;uniqueIndex" json:"order_id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Amount       float64        `gorm:"not null" json:"amount"`
	TransferDate string         `gorm:"type:varchar(10);not null" json:"transfer_date"` // YYYY-MM-DD
	TransferTime string         `gorm:"type:varchar(5);not null" json:"transfer_time"`  // HH:MM
	SlipURL      string         `gorm:"type:varchar(500)" json:"slip_url,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PaymentClaim) TableName() string {
	return "order_payments"
}

// PaymentChannel is a bank account customers can transfer to.
type PaymentChannel struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	BankName      string         `gorm:"type:varchar(100);not null" json:"bank_name"`
	AccountName   string         `gorm:"type:varchar(100);not null" json:"account_name"`
	AccountNumber string         `gorm:"type:varchar(50);not null" json:"account_number"`
	QRImageURL    string         `gorm:"type:varchar(500)" json:"qr_image_url,omitempty"`
	IsActive      bool           `json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PaymentChannel) TableName() string {
	return "payment_channels"
}
