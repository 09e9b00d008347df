package migration

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicing/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module migrates the schema and seeds the default statuses when the
// application starts.
var Module = fx.Module("migrations",
	fx.Invoke(func(lc fx.Lifecycle, conn *gorm.DB, node *snowflake.Node, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := Run(ctx, conn); err != nil {
					return err
				}
				created, err := seed.EnsureStatuses(ctx, conn, node)
				if err != nil {
					return err
				}
				log.Info("schema up to date", zap.Int("seeded_statuses", created))
				return nil
			},
		})
	}),
)
