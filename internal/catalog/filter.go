package catalog

import (
	"strings"

	"github.com/agripulse/marketplace/internal/models"
)

// CategoryAll is the pseudo-category that matches every product.
const CategoryAll = "All Products"

const categoryOrganic = "Organic"

// Categories is the navigation set shown to consumers. Product categories
// are free text, so this is a convention, not a constraint.
var Categories = []string{CategoryAll, "Vegetables", "Fruits", "Herbs", categoryOrganic}

// Filter returns the visible subset of products for a selected category and
// free-text query. The category filter runs first, then the query filter.
// Pure and order-preserving: identical inputs always produce identical output.
func Filter(products []models.Product, category, query string) []models.Product {
	out := make([]models.Product, 0, len(products))
	q := strings.ToLower(strings.TrimSpace(query))
	for _, p := range products {
		if !MatchesCategory(p, category) {
			continue
		}
		if q != "" && !matchesQuery(p, q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// MatchesCategory implements the category rules: "All Products" matches
// everything; "Organic" matches an exact category or an "organic" substring
// in the product name; anything else matches by exact equality.
func MatchesCategory(p models.Product, category string) bool {
	switch category {
	case "", CategoryAll:
		return true
	case categoryOrganic:
		return p.Category == categoryOrganic ||
			strings.Contains(strings.ToLower(p.Name), "organic")
	default:
		return p.Category == category
	}
}

// q must already be lower-cased and trimmed.
func matchesQuery(p models.Product, q string) bool {
	for _, field := range []string{p.Name, p.Description, p.FarmerName, p.FarmerLocation, p.Category} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
