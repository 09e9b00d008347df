package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]Response, error)
	SetDefault(ctx context.Context, id string) (*Response, error)
}

type CreateRequest struct {
	SupplierID  string         `json:"supplier_id"`
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Price       string         `json:"price"`
	Currency    string         `json:"currency"`
	TaxRate     string         `json:"tax_rate"`
	Metadata    map[string]any `json:"metadata"`
}

type UpdateRequest struct {
	ID          string         `json:"id"`
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Price       *string        `json:"price"`
	TaxRate     *string        `json:"tax_rate"`
	Active      *bool          `json:"active"`
	Metadata    map[string]any `json:"metadata"`
}

type Response struct {
	ID          string         `json:"id"`
	SupplierID  string         `json:"supplier_id"`
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Price       string         `json:"price"`
	Currency    string         `json:"currency"`
	TaxRate     string         `json:"tax_rate"`
	IsDefault   bool           `json:"is_default"`
	Active      bool           `json:"active"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

var (
	ErrInvalidSupplier = errors.New("invalid_supplier")
	ErrInvalidCode     = errors.New("invalid_code")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidTaxRate  = errors.New("invalid_tax_rate")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidID       = errors.New("invalid_id")
)
