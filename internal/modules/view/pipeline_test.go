package view

import (
	"testing"

	"github.com/aristath/coinfolio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asset(id, symbol, name string, price, change, qty float64) domain.EnrichedAsset {
	return domain.EnrichedAsset{
		AssetQuote: domain.AssetQuote{
			ID:        id,
			Symbol:    symbol,
			Name:      name,
			Price:     price,
			Change24h: change,
		},
		Quantity: qty,
	}
}

func ids(assets []domain.EnrichedAsset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.ID
	}
	return out
}

func testAssets() []domain.EnrichedAsset {
	return []domain.EnrichedAsset{
		asset("bitcoin", "btc", "Bitcoin", 39840.21, 2.1, 0.5),
		asset("ethereum", "eth", "Ethereum", 2104.32, 3.2, 2.3),
		asset("cardano", "ada", "Cardano", 0.43, -1.2, 500),
		asset("solana", "sol", "Solana", 104.23, 5.7, 10),
		asset("polkadot", "dot", "Polkadot", 6.89, -0.8, 30),
	}
}

func TestPresent_SortKeys(t *testing.T) {
	tests := []struct {
		key      SortKey
		expected []string
	}{
		{SortValueHigh, []string{"bitcoin", "ethereum", "solana", "cardano", "polkadot"}},
		{SortValueLow, []string{"polkadot", "cardano", "solana", "ethereum", "bitcoin"}},
		{SortNameAZ, []string{"bitcoin", "cardano", "ethereum", "polkadot", "solana"}},
		{SortNameZA, []string{"solana", "polkadot", "ethereum", "cardano", "bitcoin"}},
		{SortPriceHigh, []string{"bitcoin", "ethereum", "solana", "polkadot", "cardano"}},
		{SortPriceLow, []string{"cardano", "polkadot", "solana", "ethereum", "bitcoin"}},
		{SortChangeHigh, []string{"solana", "ethereum", "bitcoin", "polkadot", "cardano"}},
		{SortChangeLow, []string{"cardano", "polkadot", "bitcoin", "ethereum", "solana"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := Present(testAssets(), "", tt.key)
			assert.Equal(t, tt.expected, ids(got))
		})
	}
}

func TestPresent_FilterMatchesNameOrSymbol(t *testing.T) {
	got := Present(testAssets(), "ETH", SortValueHigh)
	assert.Equal(t, []string{"ethereum"}, ids(got))

	got = Present(testAssets(), "ano", SortNameAZ)
	assert.Equal(t, []string{"cardano"}, ids(got))

	got = Present(testAssets(), "o", SortNameAZ)
	assert.Equal(t, []string{"bitcoin", "cardano", "polkadot", "solana"}, ids(got))

	got = Present(testAssets(), "doge", SortValueHigh)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPresent_BlankTermIsNoOp(t *testing.T) {
	for _, term := range []string{"", " ", "\t  \n"} {
		got := Present(testAssets(), term, SortValueHigh)
		assert.Len(t, got, 5, "term %q", term)
	}
	assert.Equal(t,
		ids(Present(testAssets(), "", SortNameAZ)),
		ids(Present(testAssets(), "   ", SortNameAZ)),
	)
}

func TestPresent_Idempotent(t *testing.T) {
	once := Present(testAssets(), "o", SortPriceLow)
	twice := Present(once, "o", SortPriceLow)
	assert.Equal(t, ids(once), ids(twice))
}

func TestPresent_StableTies(t *testing.T) {
	assets := []domain.EnrichedAsset{
		asset("first", "aaa", "Same", 10, 1, 10), // value 100
		asset("second", "bbb", "Same", 20, 1, 5), // value 100
		asset("third", "ccc", "Same", 50, 1, 2),  // value 100
		asset("big", "ddd", "Other", 1000, 1, 1), // value 1000
	}

	got := Present(assets, "", SortValueHigh)
	assert.Equal(t, []string{"big", "first", "second", "third"}, ids(got))

	got = Present(assets, "", SortValueLow)
	assert.Equal(t, []string{"first", "second", "third", "big"}, ids(got))

	got = Present(assets, "", SortChangeHigh)
	assert.Equal(t, []string{"first", "second", "third", "big"}, ids(got))

	got = Present(assets, "", SortNameAZ)
	assert.Equal(t, []string{"big", "first", "second", "third"}, ids(got))

	got = Present(assets, "", SortNameZA)
	assert.Equal(t, []string{"first", "second", "third", "big"}, ids(got))
}

func TestPresent_DoesNotMutateInput(t *testing.T) {
	assets := testAssets()
	before := ids(assets)

	got := Present(assets, "", SortNameZA)
	require.NotEmpty(t, got)
	got[0].Name = "changed"

	assert.Equal(t, before, ids(assets))
	assert.Equal(t, "Bitcoin", assets[0].Name)
}

func TestPresent_LocaleAwareNames(t *testing.T) {
	assets := []domain.EnrichedAsset{
		asset("z", "z", "zeta", 1, 0, 1),
		asset("e", "e", "Éclair", 1, 0, 1),
		asset("a", "a", "alpha", 1, 0, 1),
		asset("b", "b", "Beta", 1, 0, 1),
	}

	got := Present(assets, "", SortNameAZ)
	assert.Equal(t, []string{"a", "b", "e", "z"}, ids(got))
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortValueHigh, key)

	key, err = ParseSortKey(" Name-Z ")
	require.NoError(t, err)
	assert.Equal(t, SortNameZA, key)

	_, err = ParseSortKey("volume-high")
	assert.Error(t, err)
}

func TestSortKey_Label(t *testing.T) {
	assert.Equal(t, "Value: High to Low", SortValueHigh.Label())
	assert.Equal(t, "Change: Low to High", SortChangeLow.Label())
}
