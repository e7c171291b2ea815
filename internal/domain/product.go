package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is an immutable catalog entry.
type Product struct {
	ID          int             `json:"id"`
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

// FormatPrice renders an amount as dollars with two decimals, e.g. "$79.99".
func FormatPrice(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// DisplayPrice is the formatted unit price.
func (p Product) DisplayPrice() string {
	return FormatPrice(p.Price)
}

// Stars renders a rating as one full star per whole point plus a hollow star
// when the remainder is at least one half. 4.5 renders as "★★★★☆".
func Stars(rating float64) string {
	if rating <= 0 {
		return ""
	}
	full := int(rating)
	var b strings.Builder
	b.WriteString(strings.Repeat("★", full))
	if rating-float64(full) >= 0.5 {
		b.WriteString("☆")
	}
	return b.String()
}

// String implements fmt.Stringer for log lines and debugging.
func (p Product) String() string {
	return fmt.Sprintf("#%d %s (%s)", p.ID, p.Name, p.DisplayPrice())
}
