package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agripulse/marketplace/internal/catalog"
	"github.com/agripulse/marketplace/internal/models"
)

func TestNewSessionDefaults(t *testing.T) {
	s := New(models.User{ID: 1, Name: "asha", UserType: models.RoleCustomer})

	assert.Equal(t, catalog.CategoryAll, s.Category())
	assert.Empty(t, s.Query())
	assert.Equal(t, 0, s.Cart.TotalItems())
	assert.False(t, s.User.IsFarmer())
}

func TestVisibleRecomputesFromState(t *testing.T) {
	s := New(models.User{ID: 1, Name: "asha", UserType: models.RoleCustomer})
	s.SetProducts([]models.Product{
		{ID: 1, Name: "Organic Kale", Category: "Vegetables", FarmerLocation: "New Delhi"},
		{ID: 2, Name: "Mint", Category: "Herbs", FarmerLocation: "Pune"},
	})

	require.Len(t, s.Visible(), 2)

	s.SelectCategory("Organic")
	got := s.Visible()
	require.Len(t, got, 1)
	assert.Equal(t, "Organic Kale", got[0].Name)

	s.SetQuery("delhi")
	require.Len(t, s.Visible(), 1)

	s.SetQuery("pune")
	assert.Empty(t, s.Visible())
}

func TestVisibleIsIdempotent(t *testing.T) {
	s := New(models.User{ID: 2, Name: "meera", UserType: models.RoleCustomer})
	s.SetProducts([]models.Product{
		{ID: 1, Name: "Tomatoes", Category: "Vegetables"},
	})
	s.SelectCategory("Vegetables")

	first := s.Visible()
	second := s.Visible()
	assert.Equal(t, first, second)
}

func TestSessionOwnsCartState(t *testing.T) {
	s := New(models.User{ID: 3, Name: "ravi", UserType: models.RoleCustomer})
	p := models.Product{ID: 1, Name: "Tomatoes", Price: 10}

	s.Cart.Add(p)
	s.Cart.Add(p)
	assert.Equal(t, 2, s.Cart.TotalItems())

	// A second session shares nothing with the first.
	other := New(models.User{ID: 4, Name: "meera", UserType: models.RoleCustomer})
	assert.Equal(t, 0, other.Cart.TotalItems())
}
