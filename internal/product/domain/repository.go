package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	FindBySupplier(ctx context.Context, db *gorm.DB, supplierID snowflake.ID) ([]Product, error)
	SetDefault(ctx context.Context, db *gorm.DB, supplierID, id snowflake.ID) error
}

// Lookup resolves products by id. A missing product yields (nil, nil).
type Lookup interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Product, error)
}
