package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$19.98", FormatPrice(decimal.RequireFromString("9.99").Mul(decimal.NewFromInt(2))))
	assert.Equal(t, "$0.00", FormatPrice(decimal.Zero))
	assert.Equal(t, "$15.50", FormatPrice(decimal.RequireFromString("15.5")))
	assert.Equal(t, "$0.13", FormatPrice(decimal.RequireFromString("0.125")))
}
