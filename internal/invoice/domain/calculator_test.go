package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestCalculateLine(t *testing.T) {
	tests := []struct {
		name      string
		price     string
		quantity  string
		taxRate   string
		wantTax   string
		wantTotal string
	}{
		{name: "zero tax", price: "100.50", quantity: "1", taxRate: "0", wantTax: "0.00", wantTotal: "100.50"},
		{name: "standard vat", price: "100.00", quantity: "1", taxRate: "21", wantTax: "21.00", wantTotal: "121.00"},
		{name: "fractional quantity", price: "50.00", quantity: "2.5", taxRate: "20", wantTax: "25.00", wantTotal: "150.00"},
		{name: "zero quantity", price: "99.99", quantity: "0", taxRate: "21", wantTax: "0.00", wantTotal: "0.00"},
		{name: "rounds half away from zero", price: "0.05", quantity: "1", taxRate: "10", wantTax: "0.01", wantTotal: "0.06"},
		{name: "rounds down below half", price: "10.01", quantity: "3", taxRate: "7", wantTax: "2.10", wantTotal: "32.13"},
		{name: "hours billed at fractional rate", price: "85.00", quantity: "1.75", taxRate: "19", wantTax: "28.26", wantTotal: "177.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, total := CalculateLine(d(tt.price), d(tt.quantity), d(tt.taxRate))
			assert.Equal(t, tt.wantTax, tax.StringFixed(2))
			assert.Equal(t, tt.wantTotal, total.StringFixed(2))
		})
	}
}

func TestCalculateLine_ZeroRateIsExactlyZero(t *testing.T) {
	for _, price := range []string{"0.01", "1234.56", "99999.99"} {
		tax, _ := CalculateLine(d(price), d("3.333"), decimal.Zero)
		assert.True(t, tax.IsZero(), "price %s", price)
	}
}

func TestCalculateLine_Invariants(t *testing.T) {
	prices := []string{"0.01", "9.99", "100.50", "200.25", "1234.5678"}
	quantities := []string{"0.5", "1", "2.5", "17", "0.333"}
	rates := []string{"0", "5.5", "19", "21", "25"}

	for _, p := range prices {
		for _, q := range quantities {
			for _, r := range rates {
				tax, total := CalculateLine(d(p), d(q), d(r))
				expectedTax := d(p).Mul(d(q)).Mul(d(r)).Div(decimal.NewFromInt(100)).Round(2)
				assert.True(t, expectedTax.Equal(tax), "tax p=%s q=%s r=%s", p, q, r)
				expectedTotal := d(p).Mul(d(q)).Add(tax).Round(2)
				assert.True(t, expectedTotal.Equal(total), "total p=%s q=%s r=%s", p, q, r)
			}
		}
	}
}

func TestLineItem_RecalculateOverwritesCallerValues(t *testing.T) {
	item := LineItem{
		Price:      d("100"),
		Quantity:   d("1"),
		TaxRate:    d("21"),
		TaxAmount:  d("999"),
		TotalPrice: d("1"),
	}
	item.Recalculate()

	assert.Equal(t, "21.00", item.TaxAmount.StringFixed(2))
	assert.Equal(t, "121.00", item.TotalPrice.StringFixed(2))
}

func TestSummarize(t *testing.T) {
	empty := Summarize(nil)
	assert.True(t, empty.Subtotal.IsZero())
	assert.True(t, empty.TaxTotal.IsZero())
	assert.True(t, empty.Total.IsZero())

	items := []LineItem{
		{Price: d("100.50"), Quantity: d("1"), TaxRate: d("0")},
		{Price: d("200.25"), Quantity: d("1"), TaxRate: d("0")},
		{Price: d("50.00"), Quantity: d("2.5"), TaxRate: d("20")},
	}
	for i := range items {
		items[i].Recalculate()
	}

	totals := Summarize(items)
	assert.Equal(t, "425.75", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "25.00", totals.TaxTotal.StringFixed(2))
	assert.Equal(t, "450.75", totals.Total.StringFixed(2))
}
