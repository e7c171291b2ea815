package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rasulshaikhdev/techgear-hub/internal/domain"
)

func TestApply(t *testing.T) {
	products := Default().Products()

	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"no filter keeps catalog order", Filter{}, []int{1, 2, 3, 4, 5, 6, 7, 8}},
		{"query is case-insensitive substring", Filter{Query: "MO"}, []int{4, 6, 7}},
		{"query is trimmed", Filter{Query: "  keyboard "}, []int{3}},
		{"category", Filter{Category: "Peripherals"}, []int{3, 7}},
		{"max price inclusive", Filter{MaxPrice: decimal.RequireFromString("99.99")}, []int{1, 3, 5, 7}},
		{"zero max price means no ceiling", Filter{MaxPrice: decimal.Zero}, []int{1, 2, 3, 4, 5, 6, 7, 8}},
		{"combined", Filter{Category: "Audio", MaxPrice: decimal.NewFromInt(200)}, []int{1}},
		{"no match", Filter{Query: "toaster"}, []int{}},
		{"price asc", Filter{Sort: SortPriceAsc}, []int{5, 7, 3, 1, 8, 2, 4, 6}},
		{"price desc", Filter{Sort: SortPriceDesc}, []int{6, 4, 2, 8, 1, 3, 7, 5}},
		{"name asc", Filter{Sort: SortNameAsc}, []int{4, 3, 6, 8, 5, 7, 2, 1}},
		{"rating desc", Filter{Sort: SortRatingDesc}, []int{8, 4, 3, 1, 6, 2, 5, 7}},
		{"unknown sort keeps order", Filter{Sort: "newest"}, []int{1, 2, 3, 4, 5, 6, 7, 8}},
		{"filter then sort", Filter{Category: "Peripherals", Sort: SortPriceAsc}, []int{7, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ids(Apply(products, tt.filter))); diff != "" {
				t.Errorf("Apply(%s) mismatch (-want +got):\n%s", tt.filter, diff)
			}
		})
	}
}

func TestApply_IsPure(t *testing.T) {
	products := Default().Products()
	before := ids(products)

	f := Filter{Sort: SortPriceDesc}
	first := Apply(products, f)
	second := Apply(products, f)

	assert.Equal(t, before, ids(products), "input must not be reordered")
	assert.Equal(t, ids(first), ids(second))

	first[0].Name = "mutated"
	assert.NotEqual(t, "mutated", second[0].Name, "each call returns a fresh slice")
	assert.NotEqual(t, "mutated", products[5].Name)
}

func TestApply_SortProperties(t *testing.T) {
	products := Default().Products()

	asc := Apply(products, Filter{Sort: SortPriceAsc})
	for i := 1; i < len(asc); i++ {
		assert.False(t, asc[i].Price.LessThan(asc[i-1].Price), "price must be non-decreasing at %d", i)
	}

	byRating := Apply(products, Filter{Sort: SortRatingDesc})
	for i := 1; i < len(byRating); i++ {
		assert.LessOrEqual(t, byRating[i].Rating, byRating[i-1].Rating, "rating must be non-increasing at %d", i)
	}
}

func TestApply_StableOnTies(t *testing.T) {
	same := decimal.NewFromInt(10)
	products := []domain.Product{
		{ID: 1, Name: "b", Price: same, Rating: 4},
		{ID: 2, Name: "a", Price: same, Rating: 4},
		{ID: 3, Name: "c", Price: same, Rating: 4},
	}

	assert.Equal(t, []int{1, 2, 3}, ids(Apply(products, Filter{Sort: SortPriceAsc})))
	assert.Equal(t, []int{1, 2, 3}, ids(Apply(products, Filter{Sort: SortRatingDesc})))
	assert.Equal(t, []int{2, 1, 3}, ids(Apply(products, Filter{Sort: SortNameAsc})))
}

func TestApply_NameCollation(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "zeta"},
		{ID: 2, Name: "Émile"},
		{ID: 3, Name: "apple"},
		{ID: 4, Name: "Banana"},
	}

	assert.Equal(t, []int{3, 4, 2, 1}, ids(Apply(products, Filter{Sort: SortNameAsc})))
}

func TestSortLabel(t *testing.T) {
	for _, key := range SortKeys {
		assert.NotEmpty(t, SortLabel(key))
	}
	assert.Equal(t, "Featured", SortLabel("bogus"))
}
