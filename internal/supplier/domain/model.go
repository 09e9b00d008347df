package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Supplier is the issuing party of an invoice. An owner may keep several
// supplier profiles, exactly one of which can be the default.
type Supplier struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	OwnerID   snowflake.ID `json:"owner_id" gorm:"not null;index"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Currency  string       `json:"currency" gorm:"type:text;not null"`
	IsDefault bool         `json:"is_default" gorm:"not null;default:false"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Supplier) TableName() string { return "suppliers" }

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Supplier, error)
	Get(ctx context.Context, id string) (*Supplier, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Supplier, error)
	SetDefault(ctx context.Context, id string) (*Supplier, error)
}

type CreateRequest struct {
	OwnerID  string `json:"owner_id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidOwner    = errors.New("invalid_owner")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrNotFound        = errors.New("not_found")
)
