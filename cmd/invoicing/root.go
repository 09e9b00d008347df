package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "invoicing",
		Short: "Invoice computation and line item maintenance",
		Long: `invoicing maintains invoice line items and their denormalized totals.

Configuration is read from the environment and an optional .env file.
See DATABASE_TYPE, DATABASE_* and REDIS_* for the storage settings.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(),
		newRecalculateCmd(),
		newSyncLegacyCmd(),
		newShowCmd(),
	)
	return root
}
