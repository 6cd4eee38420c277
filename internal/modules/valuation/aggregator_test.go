package valuation

import (
	"math"
	"testing"

	"github.com/aristath/coinfolio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_EndToEndExample(t *testing.T) {
	quotes := []domain.AssetQuote{
		{ID: "a", Symbol: "a", Name: "Alpha", Price: 100, Change24h: 10},
		{ID: "b", Symbol: "b", Name: "Beta", Price: 50},
	}
	holdings := domain.Holdings{"a": 2, "b": 4}

	enriched, totals := Aggregate(quotes, holdings)

	require.Len(t, enriched, 2)
	assert.Equal(t, 200.0, enriched[0].TotalValue())
	assert.Equal(t, 200.0, enriched[1].TotalValue())
	assert.Equal(t, 400.0, totals.TotalValue)
	assert.InDelta(t, 20.0, totals.DailyChange, 1e-9)
	assert.InDelta(t, 5.0, totals.DailyChangePercentage, 1e-9)
}

func TestAggregate_AbsentHoldingsDefaultToZero(t *testing.T) {
	quotes := []domain.AssetQuote{
		{ID: "bitcoin", Price: 40000, Change24h: 2.1},
		{ID: "ethereum", Price: 2000, Change24h: 3.2},
	}

	enriched, totals := Aggregate(quotes, domain.Holdings{"bitcoin": 0.5})

	require.Len(t, enriched, 2)
	assert.Equal(t, 0.5, enriched[0].Quantity)
	assert.Equal(t, 0.0, enriched[1].Quantity)
	assert.Equal(t, 0.0, enriched[1].TotalValue())
	assert.Equal(t, 20000.0, totals.TotalValue)
}

func TestAggregate_ZeroQuantitiesYieldZeroTotals(t *testing.T) {
	tests := []struct {
		name     string
		quotes   []domain.AssetQuote
		holdings domain.Holdings
	}{
		{
			name:     "explicit zero quantities",
			quotes:   []domain.AssetQuote{{ID: "a", Price: 10, Change24h: 5}, {ID: "b", Price: 3, Change24h: -7}},
			holdings: domain.Holdings{"a": 0, "b": 0},
		},
		{
			name:     "nil holdings",
			quotes:   []domain.AssetQuote{{ID: "a", Price: 10, Change24h: 5}},
			holdings: nil,
		},
		{
			name:     "holdings for unknown ids only",
			quotes:   []domain.AssetQuote{{ID: "a", Price: 10, Change24h: 5}},
			holdings: domain.Holdings{"zzz": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, totals := Aggregate(tt.quotes, tt.holdings)

			assert.Equal(t, 0.0, totals.TotalValue)
			assert.Equal(t, 0.0, totals.DailyChangePercentage)
			assert.False(t, math.IsNaN(totals.DailyChangePercentage))
		})
	}
}

func TestAggregate_EmptyQuotes(t *testing.T) {
	enriched, totals := Aggregate(nil, domain.Holdings{"a": 1})

	assert.NotNil(t, enriched)
	assert.Empty(t, enriched)
	assert.Equal(t, domain.PortfolioTotals{}, totals)
}

func TestAggregate_PreservesInputOrderAndDoesNotMutate(t *testing.T) {
	quotes := []domain.AssetQuote{
		{ID: "c", Price: 1},
		{ID: "a", Price: 2},
		{ID: "b", Price: 3},
	}
	holdings := domain.Holdings{"a": 1, "b": 1, "c": 1}

	enriched, _ := Aggregate(quotes, holdings)

	ids := make([]string, len(enriched))
	for i, a := range enriched {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
	assert.Equal(t, "c", quotes[0].ID)
}

func TestAggregate_Reproducible(t *testing.T) {
	quotes := []domain.AssetQuote{
		{ID: "bitcoin", Price: 39840.21, Change24h: 2.1},
		{ID: "ethereum", Price: 2104.32, Change24h: 3.2},
		{ID: "cardano", Price: 0.43, Change24h: -1.2},
	}
	holdings := domain.Holdings{"bitcoin": 0.5, "ethereum": 2.3, "cardano": 500}

	_, first := Aggregate(quotes, holdings)
	for i := 0; i < 10; i++ {
		_, again := Aggregate(quotes, holdings)
		assert.Equal(t, first, again)
	}
}

func TestChangePercentage(t *testing.T) {
	assert.Equal(t, 5.0, ChangePercentage(20, 400))
	assert.Equal(t, 0.0, ChangePercentage(20, 0))
	assert.Equal(t, 0.0, ChangePercentage(-3, -10))
}

func TestShare(t *testing.T) {
	assert.Equal(t, 50.0, Share(200, 400))
	assert.Equal(t, 0.0, Share(200, 0))
}
