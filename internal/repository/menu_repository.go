package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ezeats/internal/model"
)

// MenuRepository defines catalog persistence operations.
type MenuRepository interface {
	List(ctx context.Context) ([]model.MenuItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, items []model.MenuItem) error
}

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository.
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

// List returns the whole catalog ordered by category, then name.
func (r *menuRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if err := r.db.WithContext(ctx).Order("category ASC").Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID finds a menu item by ID.
func (r *menuRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// Count returns the number of catalog entries.
func (r *menuRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.MenuItem{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// CreateBatch inserts items in a single statement.
func (r *menuRepository) CreateBatch(ctx context.Context, items []model.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).CreateInBatches(items, 100).Error)
}
