package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Checkout form field names, as reported in validation results.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldAddress    = "address"
	FieldCardNumber = "card_number"
)

// CheckoutFields lists the form fields in display order.
var CheckoutFields = []string{FieldName, FieldEmail, FieldAddress, FieldCardNumber}

// CheckoutForm is a submitted checkout record.
type CheckoutForm struct {
	Name       string `json:"name" validate:"notblank"`
	Email      string `json:"email" validate:"shop_email"`
	Address    string `json:"address" validate:"notblank"`
	CardNumber string `json:"card_number" validate:"card_digits"`
}

// Order is the receipt of a successful checkout.
type Order struct {
	ID        string          `json:"id"`
	Lines     []CartLine      `json:"lines"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	Email     string          `json:"email"`
	PlacedAt  time.Time       `json:"placed_at"`
}
