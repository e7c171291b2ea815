package domain

import "github.com/shopspring/decimal"

// CartLine is a product with a quantity. A cart holds at most one line per
// product id and every line has Quantity >= 1.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// WishlistEntry is a saved product. A wishlist holds no duplicate ids.
type WishlistEntry struct {
	Product
}

// Totals are the counters derived from the cart and wishlist after every
// mutation.
type Totals struct {
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	WishlistCount int             `json:"wishlist_count"`
}

// ComputeTotals derives Totals from the given collections.
func ComputeTotals(cart []CartLine, wishlist []WishlistEntry) Totals {
	t := Totals{Total: decimal.Zero, WishlistCount: len(wishlist)}
	for _, line := range cart {
		t.ItemCount += line.Quantity
		t.Total = t.Total.Add(line.Subtotal())
	}
	return t
}

// FindLine returns the index of the cart line for productID, or -1.
func FindLine(cart []CartLine, productID int) int {
	for i := range cart {
		if cart[i].ID == productID {
			return i
		}
	}
	return -1
}

// FindEntry returns the index of the wishlist entry for productID, or -1.
func FindEntry(wishlist []WishlistEntry, productID int) int {
	for i := range wishlist {
		if wishlist[i].ID == productID {
			return i
		}
	}
	return -1
}
