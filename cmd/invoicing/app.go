package main

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicing/internal/client"
	"github.com/smallbiznis/invoicing/internal/clock"
	"github.com/smallbiznis/invoicing/internal/config"
	"github.com/smallbiznis/invoicing/internal/invoice"
	"github.com/smallbiznis/invoicing/internal/logger"
	"github.com/smallbiznis/invoicing/internal/observability"
	"github.com/smallbiznis/invoicing/internal/product"
	"github.com/smallbiznis/invoicing/internal/status"
	"github.com/smallbiznis/invoicing/internal/supplier"
	"github.com/smallbiznis/invoicing/pkg/db"
	"go.uber.org/fx"
)

const stopTimeout = 10 * time.Second

func coreModules() fx.Option {
	return fx.Options(
		// Core Infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Functional Domains
		status.Module,
		product.Module,
		supplier.Module,
		client.Module,
		invoice.Module,

		fx.NopLogger,
	)
}

// runApp starts an application built from the core modules plus opts, calls
// fn and stops the application again.
func runApp(ctx context.Context, fn func(ctx context.Context) error, opts ...fx.Option) error {
	app := fx.New(append([]fx.Option{coreModules()}, opts...)...)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	return fn(ctx)
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
