package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/invoicing/internal/product/cache"
	"github.com/smallbiznis/invoicing/internal/product/domain"
	"github.com/smallbiznis/invoicing/internal/product/repository"
	"github.com/smallbiznis/invoicing/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type productFixture struct {
	svc    domain.Service
	cache  *cache.ProductCache
	ids    *testutil.IDs
	server *miniredis.Miniredis
}

func setupProductService(t *testing.T) productFixture {
	t.Helper()

	db := testutil.OpenDB(t, &domain.Product{})
	node := testutil.Node(t)
	repo := repository.Provide()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	productCache := cache.NewProductCache(client, NewLookup(db, repo), time.Minute, zap.NewNop())

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repo,
		Cache: productCache,
	})
	return productFixture{svc: svc, cache: productCache, ids: &testutil.IDs{Node: node}, server: server}
}

func TestCreateProduct(t *testing.T) {
	f := setupProductService(t)

	resp, err := f.svc.Create(context.Background(), domain.CreateRequest{
		SupplierID: f.ids.Next(),
		Code:       "WID-1",
		Name:       "Widget",
		Price:      "12.5",
		Currency:   "eur",
		TaxRate:    "21",
		Metadata:   map[string]any{"unit": "piece"},
	})
	require.NoError(t, err)

	assert.Equal(t, "12.50", resp.Price)
	assert.Equal(t, "EUR", resp.Currency)
	assert.True(t, resp.Active)
	assert.False(t, resp.IsDefault)
	assert.Equal(t, "piece", resp.Metadata["unit"])
}

func TestCreateProductValidation(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()
	supplierID := f.ids.Next()

	tests := []struct {
		name string
		req  domain.CreateRequest
		err  error
	}{
		{name: "supplier", req: domain.CreateRequest{Code: "c", Name: "n", Currency: "EUR"}, err: domain.ErrInvalidSupplier},
		{name: "code", req: domain.CreateRequest{SupplierID: supplierID, Name: "n", Currency: "EUR"}, err: domain.ErrInvalidCode},
		{name: "name", req: domain.CreateRequest{SupplierID: supplierID, Code: "c", Currency: "EUR"}, err: domain.ErrInvalidName},
		{name: "currency", req: domain.CreateRequest{SupplierID: supplierID, Code: "c", Name: "n"}, err: domain.ErrInvalidCurrency},
		{name: "negative price", req: domain.CreateRequest{SupplierID: supplierID, Code: "c", Name: "n", Currency: "EUR", Price: "-1"}, err: domain.ErrInvalidPrice},
		{name: "bad tax rate", req: domain.CreateRequest{SupplierID: supplierID, Code: "c", Name: "n", Currency: "EUR", TaxRate: "abc"}, err: domain.ErrInvalidTaxRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestUpdateProductInvalidatesCache(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		SupplierID: f.ids.Next(),
		Code:       "SRV",
		Name:       "Service",
		Price:      "10",
		Currency:   "EUR",
	})
	require.NoError(t, err)
	id, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	cached, err := f.cache.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Len(t, f.server.Keys(), 1)

	name := "Premium service"
	price := "15.25"
	updated, err := f.svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "15.25", updated.Price)
	assert.Empty(t, f.server.Keys())

	fresh, err := f.cache.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.Equal(t, "Premium service", fresh.Name)
	assert.Equal(t, "15.25", fresh.Price.StringFixed(2))
}

func TestSetDefaultProduct(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()
	supplierID := f.ids.Next()

	var ids []string
	for _, code := range []string{"A", "B", "C"} {
		resp, err := f.svc.Create(ctx, domain.CreateRequest{SupplierID: supplierID, Code: code, Name: code, Currency: "EUR"})
		require.NoError(t, err)
		ids = append(ids, resp.ID)
	}

	_, err := f.svc.SetDefault(ctx, ids[0])
	require.NoError(t, err)
	_, err = f.svc.SetDefault(ctx, ids[2])
	require.NoError(t, err)

	products, err := f.svc.ListBySupplier(ctx, supplierID)
	require.NoError(t, err)
	require.Len(t, products, 3)

	var defaults []string
	for _, p := range products {
		if p.IsDefault {
			defaults = append(defaults, p.ID)
		}
	}
	assert.Equal(t, []string{ids[2]}, defaults)

	_, err = f.svc.SetDefault(ctx, f.ids.Next())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
