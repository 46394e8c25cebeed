// Package cart holds the consumer's session-local cart. State lives only in
// memory for the lifetime of one session and is never persisted server-side.
package cart

import (
	"errors"
	"fmt"
	"math"

	"github.com/agripulse/marketplace/internal/models"
)

// ErrNegativeQuantity is returned by SetQuantity for n < 0, which is not a
// defined transition.
var ErrNegativeQuantity = errors.New("cart: quantity cannot be negative")

// Line is one (product, quantity) pair. Quantity is always >= 1 while the
// line exists; a line is removed, never zeroed.
type Line struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Cart keeps at most one line per product id, in insertion order.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add inserts a line with quantity 1, or bumps the quantity of an existing
// line for the same product.
func (c *Cart) Add(p models.Product) {
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
}

// SetQuantity sets the quantity of an existing line. n == 0 removes the line
// entirely; n < 0 is rejected. Setting a product that is not in the cart is
// a no-op.
func (c *Cart) SetQuantity(productID uint, n int) error {
	if n < 0 {
		return ErrNegativeQuantity
	}
	if n == 0 {
		c.Remove(productID)
		return nil
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity = n
			return nil
		}
	}
	return nil
}

// Remove drops the line if present, no-op otherwise.
func (c *Cart) Remove(productID uint) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalItems is the sum of all line quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice is the sum of unit price times quantity over all lines,
// rounded to 2 decimal places.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, l := range c.lines {
		total += l.Product.Price * float64(l.Quantity)
	}
	return math.Round(total*100) / 100
}

// TotalPriceDisplay renders the total with two decimals for the UI.
func (c *Cart) TotalPriceDisplay() string {
	return fmt.Sprintf("%.2f", c.TotalPrice())
}
