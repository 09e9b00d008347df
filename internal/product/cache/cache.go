package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang/snappy"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/invoicing/internal/product/domain"
	"go.uber.org/zap"
)

const (
	keyProduct        = "invoicing:product:%s"
	defaultProductTTL = 5 * time.Minute
)

// ProductCache is a read-through redis cache in front of a product Lookup.
// Redis failures degrade to the underlying lookup.
type ProductCache struct {
	client *redis.Client
	next   domain.Lookup
	ttl    time.Duration
	log    *zap.Logger
}

func NewProductCache(client *redis.Client, next domain.Lookup, ttl time.Duration, log *zap.Logger) *ProductCache {
	if ttl <= 0 {
		ttl = defaultProductTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductCache{
		client: client,
		next:   next,
		ttl:    ttl,
		log:    log.Named("product.cache"),
	}
}

func (c *ProductCache) FindByID(ctx context.Context, id snowflake.ID) (*domain.Product, error) {
	if id == 0 {
		return nil, nil
	}
	key := productKey(id)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if product, decodeErr := decodeProduct(raw); decodeErr == nil {
			return product, nil
		}
		c.log.Warn("discarding undecodable cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("product cache read failed", zap.String("key", key), zap.Error(err))
	}

	product, err := c.next.FindByID(ctx, id)
	if err != nil || product == nil {
		return product, err
	}

	payload, err := encodeProduct(product)
	if err != nil {
		return product, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("product cache write failed", zap.String("key", key), zap.Error(err))
	}
	return product, nil
}

// Invalidate drops the cached entry for id. A nil cache is a no-op.
func (c *ProductCache) Invalidate(ctx context.Context, id snowflake.ID) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, productKey(id)).Err()
}

func productKey(id snowflake.ID) string {
	return fmt.Sprintf(keyProduct, id.String())
}

// Entries are snappy-compressed JSON.
func encodeProduct(product *domain.Product) ([]byte, error) {
	payload, err := json.Marshal(product)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, payload), nil
}

func decodeProduct(raw []byte) (*domain.Product, error) {
	payload, err := snappy.Decode(nil, raw)
	if err != nil {
		return nil, err
	}
	var product domain.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
