package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSyncPayload_Valid(t *testing.T) {
	raw := `{"items": [
		{"product_id": 42, "quantity": 2, "price": 10.5, "tax": 21},
		{"product_id": null, "quantity": 1.25, "price": "99.90", "name": " Setup fee "},
		{"quantity": 1, "price": 5}
	]}`

	payload, err := ParseSyncPayload(raw)
	require.NoError(t, err)
	require.Len(t, payload.Items, 3)

	first := payload.Items[0]
	require.NotNil(t, first.ProductID)
	assert.Equal(t, snowflake.ID(42), *first.ProductID)
	assert.Equal(t, "2", first.Quantity.String())
	assert.Equal(t, "10.5", first.Price.String())
	assert.Equal(t, "21", first.TaxRate.String())

	second := payload.Items[1]
	assert.Nil(t, second.ProductID)
	assert.Equal(t, "Setup fee", second.Name)
	assert.Equal(t, "1.25", second.Quantity.String())
	assert.True(t, second.TaxRate.IsZero())

	assert.Nil(t, payload.Items[2].ProductID)
}

func TestParseSyncPayload_EmptyItems(t *testing.T) {
	payload, err := ParseSyncPayload(`{"items": []}`)
	require.NoError(t, err)
	assert.Empty(t, payload.Items)
}

func TestParseSyncPayload_Malformed(t *testing.T) {
	inputs := map[string]string{
		"empty":               "",
		"whitespace":          "   ",
		"plain text":          "Please invoice 3 hours of consulting",
		"truncated json":      `{"items": [{"quantity": 1`,
		"top level array":     `[{"quantity": 1, "price": 1}]`,
		"null":                `null`,
		"missing items":       `{"lines": []}`,
		"items not array":     `{"items": {"quantity": 1}}`,
		"item not object":     `{"items": [5]}`,
		"null item":           `{"items": [null]}`,
		"missing price":       `{"items": [{"quantity": 1}]}`,
		"missing quantity":    `{"items": [{"price": 1}]}`,
		"non numeric price":   `{"items": [{"quantity": 1, "price": "ten"}]}`,
		"fractional product":  `{"items": [{"product_id": 1.5, "quantity": 1, "price": 1}]}`,
		"string product":      `{"items": [{"product_id": "abc", "quantity": 1, "price": 1}]}`,
		"overflowing price":   `{"items": [{"quantity": 1, "price": 1e309}]}`,
		"price beyond column": `{"items": [{"quantity": 1, "price": 1e40}]}`,
		"huge quantity":       `{"items": [{"quantity": "100000000000000", "price": 1}]}`,
		"tax beyond column":   `{"items": [{"quantity": 1, "price": 1, "tax": 1000}]}`,
		"total beyond column": `{"items": [{"quantity": 10000, "price": 99999999999999}]}`,
		"trailing garbage":    `{"items": []} extra`,
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSyncPayload(raw)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestParseSyncPayload_ProductIDAsString(t *testing.T) {
	payload, err := ParseSyncPayload(`{"items": [
		{"product_id": "1790321473120133120", "quantity": 1, "price": 5},
		{"product_id": 7, "quantity": 1, "price": 5}
	]}`)
	require.NoError(t, err)
	require.Len(t, payload.Items, 2)
	require.NotNil(t, payload.Items[0].ProductID)
	assert.Equal(t, snowflake.ID(1790321473120133120), *payload.Items[0].ProductID)
	require.NotNil(t, payload.Items[1].ProductID)
	assert.Equal(t, snowflake.ID(7), *payload.Items[1].ProductID)
}

func TestParseSyncPayload_LargestStorableValues(t *testing.T) {
	payload, err := ParseSyncPayload(`{"items": [{"quantity": 1, "price": "99999999999999.9999", "tax": 999.9999}]}`)
	require.NoError(t, err)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "99999999999999.9999", payload.Items[0].Price.String())
}
