package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"ezeats/internal/cache"
	"ezeats/internal/cart"
	apperrors "ezeats/internal/errors"
)

var (
	ErrItemUnavailable  = apperrors.NewValidationError("Item is not available")
	ErrInvalidQuantity  = apperrors.NewValidationError("Quantity must be at least 1")
	ErrNegativeQuantity = apperrors.NewValidationError("Quantity cannot be negative")
	ErrQuantityTooLarge = apperrors.NewValidationError(fmt.Sprintf("Quantity cannot exceed %d", cart.MaxQuantity))
)

// PersisterFactory returns the persister backing one user's cart.
type PersisterFactory func(userID string) cart.Persister

// RedisCarts stores each user's cart under its own Redis key.
func RedisCarts(c *cache.Client) PersisterFactory {
	return func(userID string) cart.Persister {
		return cart.NewRedisPersister(c, cart.Key(userID))
	}
}

// MemoryCarts keeps every user's cart in process memory. Carts do not survive a restart.
func MemoryCarts() PersisterFactory {
	var carts sync.Map
	return func(userID string) cart.Persister {
		p, _ := carts.LoadOrStore(userID, &cart.MemoryPersister{})
		return p.(*cart.MemoryPersister)
	}
}

// CartService manages the per-user shopping cart.
type CartService interface {
	Get(ctx context.Context, userID string) (cart.Cart, error)
	AddItem(ctx context.Context, userID, itemID string, quantity int) (cart.Cart, error)
	SetQuantity(ctx context.Context, userID, itemID string, quantity int) (cart.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (cart.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type cartService struct {
	menu       MenuService
	persisters PersisterFactory
	// one mutex per user so concurrent requests do not lose updates
	userMutexes sync.Map
}

// NewCartService creates a cart service.
func NewCartService(menu MenuService, persisters PersisterFactory) CartService {
	return &cartService{menu: menu, persisters: persisters}
}

func (s *cartService) getMutex(userID string) *sync.Mutex {
	value, _ := s.userMutexes.LoadOrStore(userID, &sync.Mutex{})
	return value.(*sync.Mutex)
}

// dispatch opens the user's store and applies one action under the user lock.
func (s *cartService) dispatch(ctx context.Context, userID string, action cart.Action) (cart.Cart, error) {
	mutex := s.getMutex(userID)
	mutex.Lock()
	defer mutex.Unlock()

	store, err := cart.Open(ctx, s.persisters(userID))
	if err != nil {
		return cart.Cart{}, err
	}
	next, err := store.Dispatch(ctx, action)
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		return next, ErrInvalidQuantity
	case errors.Is(err, cart.ErrQuantityTooLarge):
		return next, ErrQuantityTooLarge
	}
	return next, err
}

func (s *cartService) Get(ctx context.Context, userID string) (cart.Cart, error) {
	store, err := cart.Open(ctx, s.persisters(userID))
	if err != nil {
		return cart.Cart{}, err
	}
	return store.Cart(), nil
}

func (s *cartService) AddItem(ctx context.Context, userID, itemID string, quantity int) (cart.Cart, error) {
	if quantity < 1 {
		return cart.Cart{}, ErrInvalidQuantity
	}
	if quantity > cart.MaxQuantity {
		return cart.Cart{}, ErrQuantityTooLarge
	}
	item, err := s.menu.Get(ctx, itemID)
	if err != nil {
		return cart.Cart{}, err
	}
	if !item.Available {
		return cart.Cart{}, ErrItemUnavailable
	}
	return s.dispatch(ctx, userID, cart.AddItem{Item: *item, Quantity: quantity})
}

func (s *cartService) SetQuantity(ctx context.Context, userID, itemID string, quantity int) (cart.Cart, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return cart.Cart{}, ErrItemNotFound
	}
	if quantity < 0 {
		return cart.Cart{}, ErrNegativeQuantity
	}
	return s.dispatch(ctx, userID, cart.SetQuantity{ItemID: id, Quantity: quantity})
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID string) (cart.Cart, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return cart.Cart{}, ErrItemNotFound
	}
	return s.dispatch(ctx, userID, cart.RemoveItem{ItemID: id})
}

func (s *cartService) Clear(ctx context.Context, userID string) error {
	_, err := s.dispatch(ctx, userID, cart.ClearCart{})
	return err
}
