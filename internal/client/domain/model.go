package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Client is a billed party of a supplier.
type Client struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	SupplierID snowflake.ID `json:"supplier_id" gorm:"not null;index"`
	Name       string       `json:"name" gorm:"type:text;not null"`
	Email      *string      `json:"email,omitempty" gorm:"type:text"`
	IsDefault  bool         `json:"is_default" gorm:"not null;default:false"`
	CreatedAt  time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Client) TableName() string { return "clients" }

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Client, error)
	Get(ctx context.Context, id string) (*Client, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]*Client, error)
	SetDefault(ctx context.Context, id string) (*Client, error)
}

type CreateRequest struct {
	SupplierID string  `json:"supplier_id"`
	Name       string  `json:"name"`
	Email      *string `json:"email"`
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidSupplier = errors.New("invalid_supplier")
	ErrInvalidName     = errors.New("invalid_name")
	ErrNotFound        = errors.New("not_found")
)
