package domain

import "github.com/shopspring/decimal"

// Persisted precision of line item columns. Derived currency amounts use
// MoneyScale; inputs keep more places so unit prices below a cent survive.
const (
	MoneyScale     = 2
	UnitPriceScale = 4
	QuantityScale  = 4
	TaxRateScale   = 4
)

var hundred = decimal.NewFromInt(100)

// CalculateLine derives a line's tax amount and total price.
//
//	tax   = round(price * quantity * taxRate / 100, 2)
//	total = round(price * quantity + tax, 2)
//
// A zero tax rate yields a zero tax amount. Quantity may be fractional.
func CalculateLine(price, quantity, taxRate decimal.Decimal) (taxAmount, totalPrice decimal.Decimal) {
	net := price.Mul(quantity)
	taxAmount = net.Mul(taxRate).Div(hundred).Round(MoneyScale)
	totalPrice = net.Add(taxAmount).Round(MoneyScale)
	return taxAmount, totalPrice
}

// Totals aggregates the amounts of an invoice's line items.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	TaxTotal decimal.Decimal `json:"tax_total"`
	Total    decimal.Decimal `json:"total"`
}

// Summarize sums line items. An empty slice yields zero totals.
func Summarize(items []LineItem) Totals {
	totals := Totals{
		Subtotal: decimal.Zero,
		TaxTotal: decimal.Zero,
		Total:    decimal.Zero,
	}
	for _, item := range items {
		totals.Subtotal = totals.Subtotal.Add(item.Subtotal())
		totals.TaxTotal = totals.TaxTotal.Add(item.TaxAmount)
		totals.Total = totals.Total.Add(item.TotalPrice)
	}
	return totals
}
