package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ezeats/internal/cache"
	apperrors "ezeats/internal/errors"
	"ezeats/internal/model"
	"ezeats/internal/repository"
)

const menuCacheKey = "menu:all"

var ErrItemNotFound = apperrors.NewNotFoundError("Item not found")

// MenuService exposes the catalog.
type MenuService interface {
	List(ctx context.Context) ([]model.MenuItem, error)
	Get(ctx context.Context, id string) (*model.MenuItem, error)
	// SeedIfEmpty inserts the demo catalog when no item exists and returns how many were added.
	SeedIfEmpty(ctx context.Context) (int, error)
}

type menuService struct {
	repo  repository.MenuRepository
	cache *cache.Client
	ttl   time.Duration
	// serializes seeding within the process
	seedMu sync.Mutex
}

// NewMenuService builds a MenuService. A zero ttl disables list caching.
func NewMenuService(repo repository.MenuRepository, cache *cache.Client, ttl time.Duration) MenuService {
	return &menuService{repo: repo, cache: cache, ttl: ttl}
}

func (s *menuService) List(ctx context.Context) ([]model.MenuItem, error) {
	if s.ttl > 0 {
		var cached []model.MenuItem
		if s.cache.GetJSON(ctx, menuCacheKey, &cached) {
			return cached, nil
		}
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	if items == nil {
		items = []model.MenuItem{}
	}

	if s.ttl > 0 {
		_ = s.cache.SetJSON(ctx, menuCacheKey, items, s.ttl)
	}
	return items, nil
}

func (s *menuService) Get(ctx context.Context, id string) (*model.MenuItem, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrItemNotFound
	}
	item, err := s.repo.FindByID(ctx, itemID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, ErrItemNotFound
	}
	return item, err
}

func (s *menuService) SeedIfEmpty(ctx context.Context) (int, error) {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count menu: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	items := DemoMenu()
	if err := s.repo.CreateBatch(ctx, items); err != nil {
		return 0, fmt.Errorf("insert demo menu: %w", err)
	}
	_ = s.cache.Delete(ctx, menuCacheKey)
	return len(items), nil
}
