package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentEvent records one step of an order's payment handoff.
// Every attempt is logged regardless of success or failure.
type PaymentEvent struct {
	ID            uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	ProviderOrder int64       `json:"provider_order_id" gorm:"not null;index"`
	Status        OrderStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	Message       string      `json:"message,omitempty" gorm:"type:text"`
	CreatedAt     time.Time   `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (e *PaymentEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
