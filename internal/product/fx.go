package product

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/invoicing/internal/config"
	"github.com/smallbiznis/invoicing/internal/product/cache"
	"github.com/smallbiznis/invoicing/internal/product/domain"
	"github.com/smallbiznis/invoicing/internal/product/repository"
	"github.com/smallbiznis/invoicing/internal/product/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(newRedisClient),
	fx.Provide(newProductCache),
	fx.Provide(newLookup),
	fx.Provide(service.New),
)

// newRedisClient returns nil when the product cache is disabled.
func newRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	if !cfg.Redis.Enabled || cfg.Redis.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

func newProductCache(cfg config.Config, client *redis.Client, db *gorm.DB, repo domain.Repository, log *zap.Logger) *cache.ProductCache {
	if client == nil {
		return nil
	}
	ttl := time.Duration(cfg.Redis.ProductCacheTTL) * time.Second
	return cache.NewProductCache(client, service.NewLookup(db, repo), ttl, log)
}

func newLookup(db *gorm.DB, repo domain.Repository, productCache *cache.ProductCache) domain.Lookup {
	if productCache != nil {
		return productCache
	}
	return service.NewLookup(db, repo)
}
