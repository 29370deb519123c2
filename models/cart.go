package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// StoredLineItem is the persisted shape of a line item. Field names match
// snapshots written by earlier storefront scripts so existing data loads.
type StoredLineItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// MarshalJSON writes price as a bare JSON number.
func (s StoredLineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string      `json:"name"`
		Price    json.Number `json:"price"`
		Image    string      `json:"image"`
		Quantity int         `json:"quantity"`
	}{
		Name:     s.Name,
		Price:    json.Number(s.Price.String()),
		Image:    s.Image,
		Quantity: s.Quantity,
	})
}

func NewStoredLineItem(item LineItem) StoredLineItem {
	return StoredLineItem{
		Name:     item.Name,
		Price:    item.UnitPrice,
		Image:    item.ImageRef,
		Quantity: item.Quantity,
	}
}

func (s StoredLineItem) LineItem() LineItem {
	return LineItem{
		Name:      s.Name,
		UnitPrice: s.Price,
		ImageRef:  s.Image,
		Quantity:  s.Quantity,
	}
}
