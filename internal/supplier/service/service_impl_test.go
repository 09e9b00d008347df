package service

import (
	"context"
	"testing"

	"github.com/smallbiznis/invoicing/internal/supplier/domain"
	"github.com/smallbiznis/invoicing/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupSupplierService(t *testing.T) (domain.Service, *testutil.IDs) {
	t.Helper()

	db := testutil.OpenDB(t, &domain.Supplier{})
	node := testutil.Node(t)
	return NewService(ServiceParam{DB: db, Log: zap.NewNop(), GenID: node}), &testutil.IDs{Node: node}
}

func TestFirstSupplierBecomesDefault(t *testing.T) {
	svc, ids := setupSupplierService(t)
	ctx := context.Background()
	owner := ids.Next()

	first, err := svc.Create(ctx, domain.CreateRequest{OwnerID: owner, Name: "Acme", Currency: "eur"})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, "EUR", first.Currency)

	second, err := svc.Create(ctx, domain.CreateRequest{OwnerID: owner, Name: "Acme Labs", Currency: "USD"})
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
}

func TestSetDefaultKeepsSingleDefaultPerOwner(t *testing.T) {
	svc, ids := setupSupplierService(t)
	ctx := context.Background()
	owner := ids.Next()
	otherOwner := ids.Next()

	first, err := svc.Create(ctx, domain.CreateRequest{OwnerID: owner, Name: "A", Currency: "EUR"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, domain.CreateRequest{OwnerID: owner, Name: "B", Currency: "EUR"})
	require.NoError(t, err)
	foreign, err := svc.Create(ctx, domain.CreateRequest{OwnerID: otherOwner, Name: "C", Currency: "EUR"})
	require.NoError(t, err)

	_, err = svc.SetDefault(ctx, second.ID.String())
	require.NoError(t, err)

	suppliers, err := svc.ListByOwner(ctx, owner)
	require.NoError(t, err)
	defaults := 0
	for _, supplier := range suppliers {
		if supplier.IsDefault {
			defaults++
			assert.Equal(t, second.ID, supplier.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	reloaded, err := svc.Get(ctx, first.ID.String())
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)

	untouched, err := svc.Get(ctx, foreign.ID.String())
	require.NoError(t, err)
	assert.True(t, untouched.IsDefault)
}

func TestSetDefaultErrors(t *testing.T) {
	svc, ids := setupSupplierService(t)
	ctx := context.Background()

	_, err := svc.SetDefault(ctx, "bogus")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.SetDefault(ctx, ids.Next())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	svc, ids := setupSupplierService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "A", Currency: "EUR"})
	assert.ErrorIs(t, err, domain.ErrInvalidOwner)

	_, err = svc.Create(ctx, domain.CreateRequest{OwnerID: ids.Next(), Currency: "EUR"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateRequest{OwnerID: ids.Next(), Name: "A"})
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
}
