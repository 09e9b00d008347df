package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	clientdomain "github.com/smallbiznis/invoicing/internal/client/domain"
	invoicedomain "github.com/smallbiznis/invoicing/internal/invoice/domain"
	productdomain "github.com/smallbiznis/invoicing/internal/product/domain"
	statusdomain "github.com/smallbiznis/invoicing/internal/status/domain"
	supplierdomain "github.com/smallbiznis/invoicing/internal/supplier/domain"
	"gorm.io/gorm"
)

const migrationsDir = "sql/postgres"

//go:embed sql/postgres/*.sql
var embeddedMigrations embed.FS

// Models lists every persisted model in dependency order.
func Models() []any {
	return []any{
		&supplierdomain.Supplier{},
		&clientdomain.Client{},
		&productdomain.Product{},
		&statusdomain.Status{},
		&invoicedomain.Invoice{},
		&invoicedomain.LineItem{},
	}
}

// Run brings the schema up to date. Postgres uses the versioned SQL files;
// the other dialects are migrated from the gorm models.
func Run(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	if conn.Dialector.Name() != "postgres" {
		if err := conn.WithContext(ctx).AutoMigrate(Models()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}

func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Closing the migrator would close the shared *sql.DB.

	return nil
}
