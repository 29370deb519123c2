package models

import "github.com/shopspring/decimal"

// LineItem is one product entry of a cart. Name is the uniqueness key.
type LineItem struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageRef  string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns UnitPrice x Quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
