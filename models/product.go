package models

import "github.com/shopspring/decimal"

// Product is a catalog entry rendered as a product card.
type Product struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description,omitempty"`
}
