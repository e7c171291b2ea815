package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rasulshaikhdev/techgear-hub/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ids(products []domain.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestDefault_Catalog(t *testing.T) {
	c := Default()
	require.Equal(t, 8, c.Len())

	p, ok := c.Product(3)
	require.True(t, ok)
	assert.Equal(t, "Gaming Keyboard", p.Name)
	assert.Equal(t, "$79.99", p.DisplayPrice())

	charger, ok := c.Product(5)
	require.True(t, ok)
	assert.Equal(t, "Portable Charger", charger.Name, "names are trimmed")
	assert.Equal(t, "portable-charger", charger.Slug)

	_, ok = c.Product(99)
	assert.False(t, ok)
}

func TestCatalog_Lookup(t *testing.T) {
	c := Default()

	tests := []struct {
		ref    string
		wantID int
		found  bool
	}{
		{"4", 4, true},
		{"4k-monitor", 4, true},
		{"NVMe-SSD-1TB", 8, true},
		{"modern-slim-laptop-high-performance-sleek-design", 6, true},
		{"42", 0, false},
		{"toaster", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			p, ok := c.Lookup(tt.ref)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, p.ID)
		})
	}
}

func TestCategories_FirstSeenOrder(t *testing.T) {
	want := []string{"Audio", "Wearables", "Peripherals", "Displays", "Accessories", "Storage"}
	if diff := cmp.Diff(want, Default().Categories()); diff != "" {
		t.Errorf("Categories() mismatch (-want +got):\n%s", diff)
	}
}

func TestProducts_ReturnsCopy(t *testing.T) {
	c := Default()
	ps := c.Products()
	ps[0].Name = "changed"

	p, _ := c.Product(ps[0].ID)
	assert.Equal(t, "Wireless Headphones", p.Name)
}
