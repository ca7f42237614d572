package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a customer who can log in. Records are created once and never mutated by the login flow.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"type:varchar(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin;uniqueIndex;not null"` // case-sensitive
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
