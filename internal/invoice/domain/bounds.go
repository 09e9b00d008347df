package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Exclusive magnitude limits of the line item columns.
var (
	MaxQuantity = decimal.New(1, 14) // decimal(18,4)
	MaxPrice    = decimal.New(1, 14) // decimal(18,4)
	MaxTaxRate  = decimal.New(1, 3)  // decimal(7,4)
	MaxAmount   = decimal.New(1, 16) // decimal(18,2)
)

var ErrAmountOutOfRange = errors.New("amount_out_of_range")

// InRange reports whether value, rounded to scale places, stays below max in magnitude.
func InRange(value decimal.Decimal, max decimal.Decimal, scale int32) bool {
	return value.Round(scale).Abs().LessThan(max)
}

// CheckLineRange verifies that a line's inputs and derived amounts fit their
// columns. Values outside them cannot be stored faithfully on every dialect.
func CheckLineRange(price, quantity, taxRate decimal.Decimal) error {
	if !InRange(quantity, MaxQuantity, QuantityScale) {
		return ErrInvalidQuantity
	}
	if !InRange(price, MaxPrice, UnitPriceScale) {
		return ErrInvalidPrice
	}
	if !InRange(taxRate, MaxTaxRate, TaxRateScale) {
		return ErrInvalidTaxRate
	}
	taxAmount, total := CalculateLine(
		price.Round(UnitPriceScale),
		quantity.Round(QuantityScale),
		taxRate.Round(TaxRateScale),
	)
	if !InRange(taxAmount, MaxAmount, MoneyScale) || !InRange(total, MaxAmount, MoneyScale) {
		return ErrAmountOutOfRange
	}
	return nil
}
