package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product is a catalog entry a supplier sells. Line items copy its name and
// price at creation time and never follow later edits.
type Product struct {
	ID          snowflake.ID      `json:"id" gorm:"primaryKey"`
	SupplierID  snowflake.ID      `json:"supplier_id" gorm:"not null;index"`
	Code        string            `json:"code" gorm:"type:text;not null"`
	Name        string            `json:"name" gorm:"type:text;not null"`
	Description *string           `json:"description,omitempty" gorm:"type:text"`
	Price       decimal.Decimal   `json:"price" gorm:"type:decimal(18,2);not null;default:0"`
	Currency    string            `json:"currency" gorm:"type:text;not null"`
	TaxRate     decimal.Decimal   `json:"tax_rate" gorm:"type:decimal(6,2);not null;default:0"`
	IsDefault   bool              `json:"is_default" gorm:"not null;default:false"`
	Active      bool              `json:"active" gorm:"not null;default:true"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }
