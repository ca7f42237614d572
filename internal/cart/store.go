package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ezeats/internal/model"
)

// Action is a cart transition.
type Action interface {
	apply(Cart) (Cart, error)
}

// AddItem merges Quantity of Item into the cart.
type AddItem struct {
	Item     model.MenuItem
	Quantity int
}

func (a AddItem) apply(c Cart) (Cart, error) { return c.Add(a.Item, a.Quantity) }

// SetQuantity overwrites the quantity of ItemID; zero removes the line.
type SetQuantity struct {
	ItemID   uuid.UUID
	Quantity int
}

func (a SetQuantity) apply(c Cart) (Cart, error) { return c.SetQuantity(a.ItemID, a.Quantity) }

// RemoveItem drops the line for ItemID.
type RemoveItem struct {
	ItemID uuid.UUID
}

func (a RemoveItem) apply(c Cart) (Cart, error) { return c.Remove(a.ItemID), nil }

// ClearCart empties the cart.
type ClearCart struct{}

func (ClearCart) apply(c Cart) (Cart, error) { return c.Clear(), nil }

// Reduce applies a to c.
func Reduce(c Cart, a Action) (Cart, error) {
	return a.apply(c)
}

// Persister loads and saves one cart.
type Persister interface {
	Load(ctx context.Context) (Cart, error)
	Save(ctx context.Context, c Cart) error
}

// Store is a single-owner cart container. It is not safe for concurrent use.
type Store struct {
	persister Persister
	state     Cart
}

// Open rehydrates a store from p.
func Open(ctx context.Context, p Persister) (*Store, error) {
	c, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return &Store{persister: p, state: c}, nil
}

// Cart returns the current state.
func (s *Store) Cart() Cart {
	return s.state
}

// Dispatch applies a and persists the result. The in-memory state only
// advances once the save succeeded.
func (s *Store) Dispatch(ctx context.Context, a Action) (Cart, error) {
	next, err := Reduce(s.state, a)
	if err != nil {
		return s.state, err
	}
	if err := s.persister.Save(ctx, next); err != nil {
		return s.state, fmt.Errorf("save cart: %w", err)
	}
	s.state = next
	return next, nil
}

// Add merges qty of item.
func (s *Store) Add(ctx context.Context, item model.MenuItem, qty int) (Cart, error) {
	return s.Dispatch(ctx, AddItem{Item: item, Quantity: qty})
}

// SetQuantity overwrites the quantity of id.
func (s *Store) SetQuantity(ctx context.Context, id uuid.UUID, qty int) (Cart, error) {
	return s.Dispatch(ctx, SetQuantity{ItemID: id, Quantity: qty})
}

// Remove drops id.
func (s *Store) Remove(ctx context.Context, id uuid.UUID) (Cart, error) {
	return s.Dispatch(ctx, RemoveItem{ItemID: id})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) (Cart, error) {
	return s.Dispatch(ctx, ClearCart{})
}
