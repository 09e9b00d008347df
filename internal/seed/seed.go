package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	statusdomain "github.com/smallbiznis/invoicing/internal/status/domain"
	statusrepository "github.com/smallbiznis/invoicing/internal/status/repository"
	"github.com/smallbiznis/invoicing/pkg/db"
	"gorm.io/gorm"
)

type defaultStatus struct {
	slug string
	name string
}

// Statuses seeded without a color render through the presentation table.
var defaultStatuses = []defaultStatus{
	{slug: "draft", name: "Draft"},
	{slug: "pending", name: "Pending"},
	{slug: "sent", name: "Sent"},
	{slug: "paid", name: "Paid"},
	{slug: "overdue", name: "Overdue"},
	{slug: "cancelled", name: "Cancelled"},
}

// EnsureStatuses creates the default invoice statuses that do not exist yet
// and returns how many were created. Existing rows are left untouched.
func EnsureStatuses(ctx context.Context, conn *gorm.DB, node *snowflake.Node) (int, error) {
	if conn == nil {
		return 0, errors.New("seed database handle is required")
	}
	if node == nil {
		return 0, errors.New("seed id generator is required")
	}

	repo := statusrepository.Provide()
	created := 0
	err := conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, def := range defaultStatuses {
			existing, err := repo.FindBySlug(ctx, tx, def.slug)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}

			status := statusdomain.Status{
				ID:        node.Generate(),
				Slug:      def.slug,
				Name:      def.name,
				CreatedAt: now,
				UpdatedAt: now,
			}
			// Savepoint so a concurrent seeder's row does not abort the transaction.
			err = tx.Transaction(func(sp *gorm.DB) error {
				return repo.Create(ctx, sp, &status)
			})
			if err != nil {
				if db.IsDuplicateKeyErr(err) {
					continue
				}
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
