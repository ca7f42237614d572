package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ezeats/internal/cache"
	apperrors "ezeats/internal/errors"
	"ezeats/internal/model"
	"ezeats/internal/repository"
)

const userCacheTTL = 5 * time.Minute

var ErrUserNotFound = apperrors.NewNotFoundError("User not found")

// UserService exposes profile lookups.
type UserService interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

// GetUser returns the profile for id. Cached copies never carry the password hash.
func (s *userService) GetUser(ctx context.Context, id string) (*model.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(userID), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(userID), user, userCacheTTL)
	return user, nil
}
