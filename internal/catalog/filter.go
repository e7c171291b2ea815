package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rasulshaikhdev/techgear-hub/internal/domain"
)

// Sort keys.
const (
	SortNone       = ""
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
	SortNameAsc    = "name-asc"
	SortRatingDesc = "rating-desc"
)

// SortKeys lists the recognised sort keys in menu order, SortNone first.
var SortKeys = []string{SortNone, SortPriceAsc, SortPriceDesc, SortNameAsc, SortRatingDesc}

// SortLabel returns a human label for a sort key.
func SortLabel(key string) string {
	switch key {
	case SortPriceAsc:
		return "Price: Low to High"
	case SortPriceDesc:
		return "Price: High to Low"
	case SortNameAsc:
		return "Name: A to Z"
	case SortRatingDesc:
		return "Top Rated"
	default:
		return "Featured"
	}
}

// Filter is the transient view state of the catalog controls.
type Filter struct {
	Query    string
	Category string
	// MaxPrice is the inclusive price ceiling. Zero means no ceiling.
	MaxPrice decimal.Decimal
	Sort     string
}

func (f Filter) String() string {
	return fmt.Sprintf("q=%q category=%q max=%s sort=%q", f.Query, f.Category, f.MaxPrice, f.Sort)
}

func (f Filter) matches(p domain.Product, query string) bool {
	if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if !f.MaxPrice.IsZero() && p.Price.GreaterThan(f.MaxPrice) {
		return false
	}
	return true
}

// Apply returns the products matching f, ordered by f.Sort. It never mutates
// products and always returns a fresh slice. Sorting is stable, and an
// unknown or empty sort key keeps the input order.
func Apply(products []domain.Product, f Filter) []domain.Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.matches(p, query) {
			out = append(out, p)
		}
	}

	switch f.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortNameAsc:
		col := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	case SortRatingDesc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			default:
				return 0
			}
		})
	}

	return out
}

// Apply filters and sorts the catalog's products.
func (c *Catalog) Apply(f Filter) []domain.Product {
	return Apply(c.products, f)
}
