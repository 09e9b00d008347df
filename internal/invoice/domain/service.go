package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Service exposes invoice computations and line item maintenance.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Invoice, error)
	Get(ctx context.Context, id string) (*Invoice, error)
	Delete(ctx context.Context, id string) error

	// Aggregation. CalculateTotalAmount is the only operation that writes
	// the invoice's cached payment amount.
	GetSubtotal(ctx context.Context, invoiceID string) (decimal.Decimal, error)
	GetTotalTax(ctx context.Context, invoiceID string) (decimal.Decimal, error)
	CalculateTotalAmount(ctx context.Context, invoiceID string) (decimal.Decimal, error)
	Summarize(ctx context.Context, invoiceID string) (Totals, error)

	// Presentation.
	GetDueDate(invoice Invoice) (time.Time, bool)
	GetStatusColorClass(ctx context.Context, invoice Invoice) string

	// Line items.
	ListLineItems(ctx context.Context, invoiceID string) ([]LineItem, error)
	AddLineItem(ctx context.Context, req AddLineItemRequest) (*LineItem, error)
	UpdateLineItem(ctx context.Context, req UpdateLineItemRequest) (*LineItem, error)
	RemoveLineItem(ctx context.Context, lineItemID string) error

	// Synchronization from the legacy JSON description.
	SyncLineItemsFromPayload(ctx context.Context, invoiceID string, raw string) error
	SyncLegacyNotes(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}

type CreateRequest struct {
	Number          *string    `json:"number"`
	ClientID        *string    `json:"client_id"`
	SupplierID      *string    `json:"supplier_id"`
	PaymentMethodID *string    `json:"payment_method_id"`
	StatusID        *string    `json:"status_id"`
	IssueDate       *time.Time `json:"issue_date"`
	DueIn           *int       `json:"due_in"`
	Currency        string     `json:"payment_currency"`
	Notes           *string    `json:"notes"`
}

type AddLineItemRequest struct {
	InvoiceID string  `json:"invoice_id"`
	ProductID *string `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  string  `json:"quantity"`
	Price     *string `json:"price"`
	TaxRate   *string `json:"tax_rate"`
}

// UpdateLineItemRequest changes the given fields. Any caller-supplied derived
// amounts are ignored; they are recomputed on save.
type UpdateLineItemRequest struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Quantity *string `json:"quantity"`
	Price    *string `json:"price"`
	TaxRate  *string `json:"tax_rate"`
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidTaxRate  = errors.New("invalid_tax_rate")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidDueIn    = errors.New("invalid_due_in")
	ErrNotFound        = errors.New("not_found")
	ErrProductNotFound = errors.New("product_not_found")
)
