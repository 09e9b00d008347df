package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository persists invoices and their line items. Every method takes the
// gorm handle to run on so callers can compose calls inside one transaction.
type Repository interface {
	Create(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	UpdatePaymentAmount(ctx context.Context, db *gorm.DB, id snowflake.ID, amount decimal.Decimal, at time.Time) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	ListLineItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]LineItem, error)
	FindLineItem(ctx context.Context, db *gorm.DB, id snowflake.ID) (*LineItem, error)
	CreateLineItem(ctx context.Context, db *gorm.DB, item *LineItem) error
	UpdateLineItem(ctx context.Context, db *gorm.DB, item *LineItem) error
	DeleteLineItems(ctx context.Context, db *gorm.DB, ids []snowflake.ID) error
	DeleteLineItemsByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error
}
