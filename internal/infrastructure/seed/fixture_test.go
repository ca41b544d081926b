package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
settings:
  gst_rate: "12"
parties:
  - key: noor
    name: Noor Boutique
    phone: "+91 98200 11111"
  - key: kannauj
    id: 1b4e28ba-2fa1-11d2-883f-0016d3cca427
    name: Kannauj Distillers
    kind: supplier
    balance: "-2500.50"
products:
  - key: oud
    name: Oud Royale 50ml
    sku: OUD-50
    price: "1500"
    cost_price: "950"
    stock: 20
attars:
  - key: shamama
    name: Shamama 12ml
    sku: ATR-SHAM
    cost_price: "450"
prices:
  - party: noor
    item: shamama
    price: "430"
`

func TestParse(t *testing.T) {
	ds, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.Len(t, ds.Parties, 2)
	assert.Equal(t, enum.PartyKindCustomer, ds.Parties[0].Kind)
	require.NotNil(t, ds.Parties[0].Phone)
	assert.Nil(t, ds.Parties[0].Email)
	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", ds.Parties[1].ID.String())
	assert.Equal(t, "-2500.5", ds.Parties[1].Balance.String())

	require.Len(t, ds.Products, 1)
	require.Len(t, ds.Attars, 1)
	assert.Empty(t, ds.GiftSets)
	assert.Equal(t, "450", ds.Attars[0].CostPrice.String())
	assert.True(t, ds.Attars[0].Price.IsZero())

	require.Len(t, ds.Stocks, 1)
	assert.Equal(t, ds.Products[0].ID, ds.Stocks[0].ItemID)
	assert.Equal(t, enum.ItemKindProduct, ds.Stocks[0].ItemKind)
	assert.Equal(t, 20, ds.Stocks[0].Quantity)

	require.Len(t, ds.Prices, 1)
	assert.Equal(t, ds.Parties[0].ID, ds.Prices[0].PartyID)
	assert.Equal(t, ds.Attars[0].ID, ds.Prices[0].ItemID)
	assert.Equal(t, enum.ItemKindAttar, ds.Prices[0].ItemKind)

	require.Len(t, ds.Settings, 1)
	assert.Equal(t, "12", ds.Settings[0].Value)
}

func TestParse_IDsAreStable(t *testing.T) {
	first, err := Parse([]byte(sample))
	require.NoError(t, err)
	second, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, first.Parties[0].ID, second.Parties[0].ID)
	assert.Equal(t, first.Products[0].ID, second.Products[0].ID)
	assert.Equal(t, first.Stocks[0].ID, second.Stocks[0].ID)
	assert.Equal(t, first.Prices[0].ID, second.Prices[0].ID)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed yaml", doc: "parties: ["},
		{name: "party without name", doc: "parties:\n  - key: a\n"},
		{name: "duplicate party", doc: "parties:\n  - {key: a, name: A}\n  - {key: a, name: B}\n"},
		{name: "unknown party kind", doc: "parties:\n  - {key: a, name: A, kind: vendor}\n"},
		{name: "bad id", doc: "parties:\n  - {key: a, name: A, id: nope}\n"},
		{name: "bad amount", doc: "products:\n  - {key: p, name: P, sku: P1, price: abc}\n"},
		{name: "item without sku", doc: "attars:\n  - {key: p, name: P}\n"},
		{name: "duplicate item across catalogs", doc: "products:\n  - {key: p, name: P, sku: P1}\nsets:\n  - {key: p, name: S, sku: S1}\n"},
		{name: "price for unknown party", doc: "products:\n  - {key: p, name: P, sku: P1}\nprices:\n  - {party: x, item: p, price: \"1\"}\n"},
		{name: "price for unknown item", doc: "parties:\n  - {key: a, name: A}\nprices:\n  - {party: a, item: x, price: \"1\"}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	ds, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, ds.Parties, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_DemoFixture(t *testing.T) {
	ds, err := LoadFile(filepath.Join("..", "..", "..", "fixtures", "demo.yaml"))
	require.NoError(t, err)
	assert.Len(t, ds.Parties, 2)
	assert.Len(t, ds.Products, 2)
	assert.Len(t, ds.GiftSets, 1)
	assert.Len(t, ds.Attars, 2)
	assert.Len(t, ds.Stocks, 4)
	assert.Len(t, ds.Prices, 2)
}
