package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ezeats/internal/model"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create persists a new user. A duplicate email yields errors.ErrConflict.
	Create(ctx context.Context, user *model.User) error
	// FindByID returns errors.ErrNotFound when no user has the id.
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// FindByEmail returns errors.ErrNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
