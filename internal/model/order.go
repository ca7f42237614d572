package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents where an order is in the payment handoff.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// Order is a checkout handed to the payment provider.
type Order struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID        uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;index"`
	ProviderOrder int64           `json:"provider_order_id" gorm:"uniqueIndex;not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Currency      string          `json:"currency" gorm:"size:3;not null"`
	Items         int             `json:"items" gorm:"not null"`
	Status        OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
