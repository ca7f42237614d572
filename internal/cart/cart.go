// Package cart holds the shopping cart state machine.
//
// A Cart is a value; every transition returns a new Cart and leaves the
// receiver untouched. Store wraps a Cart with a Persister so each committed
// transition is written through before it becomes visible.
package cart

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ezeats/internal/model"
)

// TaxRate is applied to the subtotal.
var TaxRate = decimal.NewFromFloat(0.10)

// MaxQuantity caps the quantity of a single line.
const MaxQuantity = 99

var (
	// ErrInvalidQuantity is returned for quantities below what the transition accepts.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrQuantityTooLarge is returned when a line would exceed MaxQuantity.
	ErrQuantityTooLarge = errors.New("quantity exceeds limit")
)

// Line is one (item, quantity) pairing. Quantity is always within [1, MaxQuantity].
type Line struct {
	Item     model.MenuItem `json:"item"`
	Quantity int            `json:"quantity"`
}

// Amount is price times quantity.
func (l Line) Amount() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines with at most one line per item id.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Totals are derived from a cart and never stored.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

func (c Cart) index(id uuid.UUID) int {
	for i, l := range c.Lines {
		if l.Item.ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

// Line returns the line for id.
func (c Cart) Line(id uuid.UUID) (Line, bool) {
	if i := c.index(id); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

// Add merges qty of item into the cart: an existing line is incremented, otherwise a line is appended.
func (c Cart) Add(item model.MenuItem, qty int) (Cart, error) {
	if qty < 1 {
		return c, ErrInvalidQuantity
	}
	if qty > MaxQuantity {
		return c, ErrQuantityTooLarge
	}
	if l, ok := c.Line(item.ID); ok && qty > MaxQuantity-l.Quantity {
		return c, ErrQuantityTooLarge
	}
	next := c.clone()
	if i := next.index(item.ID); i >= 0 {
		next.Lines[i].Quantity += qty
		return next, nil
	}
	next.Lines = append(next.Lines, Line{Item: item, Quantity: qty})
	return next, nil
}

// SetQuantity overwrites the quantity of a line; zero removes it. Unknown ids leave the cart unchanged.
func (c Cart) SetQuantity(id uuid.UUID, qty int) (Cart, error) {
	if qty < 0 {
		return c, ErrInvalidQuantity
	}
	if qty > MaxQuantity {
		return c, ErrQuantityTooLarge
	}
	if qty == 0 {
		return c.Remove(id), nil
	}
	i := c.index(id)
	if i < 0 {
		return c, nil
	}
	next := c.clone()
	next.Lines[i].Quantity = qty
	return next, nil
}

// Remove drops the line for id. It is a no-op when absent.
func (c Cart) Remove(id uuid.UUID) Cart {
	i := c.index(id)
	if i < 0 {
		return c
	}
	lines := make([]Line, 0, len(c.Lines)-1)
	lines = append(lines, c.Lines[:i]...)
	lines = append(lines, c.Lines[i+1:]...)
	return Cart{Lines: lines}
}

// Clear empties the cart.
func (c Cart) Clear() Cart {
	return Cart{Lines: []Line{}}
}

// Empty reports whether the cart has no lines.
func (c Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Totals computes subtotal, tax and total.
func (c Cart) Totals() Totals {
	subtotal := decimal.Zero
	count := 0
	for _, l := range c.Lines {
		subtotal = subtotal.Add(l.Amount())
		count += l.Quantity
	}
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
		Count:    count,
	}
}
