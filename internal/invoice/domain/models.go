// Package domain contains persistence models and pure computations for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is an issued or draft invoice. PaymentAmount caches the sum of its
// line item totals and is refreshed only by an explicit recalculation.
type Invoice struct {
	ID              snowflake.ID    `json:"id" gorm:"primaryKey"`
	Number          *string         `json:"number,omitempty" gorm:"type:text"`
	ClientID        *snowflake.ID   `json:"client_id,omitempty" gorm:"index"`
	SupplierID      *snowflake.ID   `json:"supplier_id,omitempty" gorm:"index"`
	PaymentMethodID *snowflake.ID   `json:"payment_method_id,omitempty" gorm:""`
	StatusID        *snowflake.ID   `json:"status_id,omitempty" gorm:"index"`
	IssueDate       time.Time       `json:"issue_date" gorm:"not null"`
	DueIn           *int            `json:"due_in,omitempty" gorm:""`
	PaymentAmount   decimal.Decimal `json:"payment_amount" gorm:"type:decimal(18,2);not null;default:0"`
	PaymentCurrency string          `json:"payment_currency" gorm:"type:text;not null"`
	Notes           *string         `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// DueDate resolves the invoice due date. ok is false when the invoice has no term.
func (i Invoice) DueDate() (time.Time, bool) {
	return DueDate(i.IssueDate, i.DueIn)
}

// LineItem is one priced entry on an invoice. A nil ProductID marks a custom
// item. TaxAmount and TotalPrice are derived and recomputed on every save.
type LineItem struct {
	ID              snowflake.ID    `json:"id" gorm:"primaryKey"`
	InvoiceID       snowflake.ID    `json:"invoice_id" gorm:"not null;index"`
	ProductID       *snowflake.ID   `json:"product_id,omitempty" gorm:"index"`
	Position        int             `json:"position" gorm:"not null;default:0"`
	Name            string          `json:"name" gorm:"type:text;not null"`
	Quantity        decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null;default:1"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(18,4);not null;default:0"`
	Currency        string          `json:"currency" gorm:"type:text;not null"`
	TaxRate         decimal.Decimal `json:"tax_rate" gorm:"type:decimal(7,4);not null;default:0"`
	TaxAmount       decimal.Decimal `json:"tax_amount" gorm:"type:decimal(18,2);not null;default:0"`
	TotalPrice      decimal.Decimal `json:"total_price" gorm:"type:decimal(18,2);not null;default:0"`
	IsCustomProduct bool            `json:"is_custom_product" gorm:"not null;default:false"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "invoice_products" }

// Normalize rounds the inputs to their persisted precision so that derived
// amounts are computed from exactly the values that get stored.
func (li *LineItem) Normalize() {
	li.Quantity = li.Quantity.Round(QuantityScale)
	li.Price = li.Price.Round(UnitPriceScale)
	li.TaxRate = li.TaxRate.Round(TaxRateScale)
}

// Recalculate overwrites TaxAmount and TotalPrice from price, quantity and tax rate.
func (li *LineItem) Recalculate() {
	li.TaxAmount, li.TotalPrice = CalculateLine(li.Price, li.Quantity, li.TaxRate)
}

// Subtotal is the pre-tax amount of the line.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(li.Quantity)
}

// BeforeSave keeps derived amounts consistent on every create and update.
func (li *LineItem) BeforeSave(tx *gorm.DB) error {
	li.Normalize()
	li.Recalculate()
	return nil
}
