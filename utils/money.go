package utils

import "github.com/shopspring/decimal"

// FormatPrice renders an amount with two fixed decimals, e.g. "$19.98".
func FormatPrice(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
