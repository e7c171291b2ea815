// Package catalog holds the fixed product catalog and the pure filter/sort
// pipeline over it.
package catalog

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rasulshaikhdev/techgear-hub/internal/domain"
	"github.com/rasulshaikhdev/techgear-hub/pkg/slug"
)

// Catalog is an immutable, indexed list of products.
type Catalog struct {
	products []domain.Product
	byID     map[int]int
	bySlug   map[string]int
}

// New builds a catalog from products. Names are trimmed and missing slugs
// are generated from the name. The input slice is not retained.
func New(products []domain.Product) *Catalog {
	c := &Catalog{
		products: make([]domain.Product, len(products)),
		byID:     make(map[int]int, len(products)),
		bySlug:   make(map[string]int, len(products)),
	}
	for i, p := range products {
		p.Name = strings.TrimSpace(p.Name)
		if p.Slug == "" {
			p.Slug = slug.Generate(p.Name)
		}
		c.products[i] = p
		c.byID[p.ID] = i
		c.bySlug[p.Slug] = i
	}
	return c
}

// Default returns the TechGear Hub catalog.
func Default() *Catalog {
	return New(defaultProducts())
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func defaultProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Wireless Headphones", Category: "Audio", Price: price("99.99"), Rating: 4.5, Image: "./Images/Headphones.png",
			Description: "Sleek wireless headphones with high-fidelity sound, comfortable ear cushions, and long-lasting battery life."},
		{ID: 2, Name: "Smartwatch Pro", Category: "Wearables", Price: price("149.99"), Rating: 4.3, Image: "./Images/Smartwatch.png",
			Description: "Modern smartwatch with fitness tracking, notifications, and stylish touchscreen design."},
		{ID: 3, Name: "Gaming Keyboard", Category: "Peripherals", Price: price("79.99"), Rating: 4.6, Image: "./Images/Keyboard.png",
			Description: "Mechanical keys with customizable RGB lighting."},
		{ID: 4, Name: "4K Monitor", Category: "Displays", Price: price("299.99"), Rating: 4.7, Image: "./Images/Monitor.png",
			Description: "High-resolution 4K monitor with vibrant display and slim modern design, perfect for work and entertainment."},
		{ID: 5, Name: "Portable Charger ", Category: "Accessories", Price: price("39.99"), Rating: 4.2, Image: "./Images/Charger.png",
			Description: "Keep your devices powered on the go."},
		{ID: 6, Name: "Modern Slim Laptop – High Performance & Sleek Design", Category: "Audio", Price: price("1559.99"), Rating: 4.4, Image: "./Images/Laptop.png",
			Description: "Experience power and portability with this modern slim laptop."},
		{ID: 7, Name: "RGB Mouse", Category: "Peripherals", Price: price("49.99"), Rating: 4.1, Image: "./Images/Mouse.png",
			Description: "Sleek RGB gaming mouse with customizable multicolor lighting and ergonomic design for precision gaming."},
		{ID: 8, Name: "NVMe SSD 1TB", Category: "Storage", Price: price("119.99"), Rating: 4.8, Image: "./Images/Aoros.png",
			Description: "Blazing fast NVMe storage for OS and games."},
	}
}

// Products returns a copy of the catalog in its natural order.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// Product looks a product up by id.
func (c *Catalog) Product(id int) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// BySlug looks a product up by its URL slug.
func (c *Catalog) BySlug(s string) (domain.Product, bool) {
	i, ok := c.bySlug[s]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// Lookup resolves ref as a numeric id first, then as a slug.
func (c *Catalog) Lookup(ref string) (domain.Product, bool) {
	if id, err := strconv.Atoi(ref); err == nil {
		return c.Product(id)
	}
	return c.BySlug(strings.ToLower(ref))
}

// Categories returns the catalog's distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	return Categories(c.products)
}

// Categories returns the distinct categories of products in first-seen order.
func Categories(products []domain.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
