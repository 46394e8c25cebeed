// Package session models one consumer's browsing state as an explicit
// view-model object instead of ambient globals: the loaded product list, the
// selected category, the search query and the cart all live here and are
// passed by reference to whatever renders them.
package session

import (
	"github.com/agripulse/marketplace/internal/cart"
	"github.com/agripulse/marketplace/internal/catalog"
	"github.com/agripulse/marketplace/internal/models"
)

type Session struct {
	User models.User
	Cart *cart.Cart

	products []models.Product
	category string
	query    string
}

func New(user models.User) *Session {
	return &Session{
		User:     user,
		Cart:     cart.New(),
		category: catalog.CategoryAll,
	}
}

// SetProducts replaces the loaded product list, e.g. after a catalog fetch.
func (s *Session) SetProducts(products []models.Product) {
	s.products = products
}

func (s *Session) SelectCategory(category string) {
	s.category = category
}

func (s *Session) SetQuery(query string) {
	s.query = query
}

func (s *Session) Category() string { return s.category }
func (s *Session) Query() string    { return s.query }

// Visible recomputes the filtered product list from current state. No hidden
// state: calling it twice without a state change yields the same slice
// contents.
func (s *Session) Visible() []models.Product {
	return catalog.Filter(s.products, s.category, s.query)
}
