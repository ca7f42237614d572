package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category is one of the fixed menu sections.
type Category string

const (
	CategoryAppetizers Category = "appetizers"
	CategoryMains      Category = "mains"
	CategoryDesserts   Category = "desserts"
	CategoryBeverages  Category = "beverages"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAppetizers, CategoryMains, CategoryDesserts, CategoryBeverages:
		return true
	}
	return false
}

// DefaultMenuImage is used when an item has no picture.
const DefaultMenuImage = "/placeholder.svg?height=200&width=300"

// MenuItem is a catalog entry. It is read-only to the ordering flow.
type MenuItem struct {
	ID          uuid.UUID       `json:"_id" gorm:"type:char(36);primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null;index:idx_menu_category_name,priority:2"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Category    Category        `json:"category" gorm:"type:varchar(20);not null;index:idx_menu_category_name,priority:1"`
	Image       string          `json:"image" gorm:"size:512"`
	Available   bool            `json:"available" gorm:"default:true"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID and the default image before creating the record.
func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Image == "" {
		m.Image = DefaultMenuImage
	}
	return nil
}
