package migration

import (
	"context"
	"testing"

	"github.com/smallbiznis/invoicing/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAutoMigratesNonPostgres(t *testing.T) {
	db := testutil.OpenDB(t)

	require.NoError(t, Run(context.Background(), db))
	require.NoError(t, Run(context.Background(), db))

	for _, table := range []string{"suppliers", "clients", "products", "invoice_statuses", "invoices", "invoice_products"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := embeddedMigrations.ReadDir(migrationsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
