package db

import (
	"context"

	"gorm.io/gorm"
)

// WithTx runs fn inside a transaction. When db is already a transaction
// handle, gorm nests the work in a savepoint so callers can compose.
func WithTx(ctx context.Context, conn *gorm.DB, fn func(tx *gorm.DB) error) error {
	return conn.WithContext(ctx).Transaction(fn)
}
