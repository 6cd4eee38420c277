package testing

import (
	"github.com/aristath/coinfolio/internal/domain"
)

// NewQuoteFixtures returns quotes for three assets in market-cap order
func NewQuoteFixtures() []domain.AssetQuote {
	return []domain.AssetQuote{
		{
			ID:        "bitcoin",
			Symbol:    "btc",
			Name:      "Bitcoin",
			Price:     40000,
			Change24h: 2.5,
			Change7d:  5,
			Sparkline: []float64{39000, 39500, 39250, 40000},
		},
		{
			ID:        "ethereum",
			Symbol:    "eth",
			Name:      "Ethereum",
			Price:     2000,
			Change24h: -1,
			Change7d:  3,
			Sparkline: []float64{2100, 2050, 1990, 2000},
		},
		{
			ID:        "cardano",
			Symbol:    "ada",
			Name:      "Cardano",
			Price:     0.5,
			Change24h: 0,
			Change7d:  -2,
			Sparkline: []float64{0.5, 0.5},
		},
	}
}

// NewHoldingsFixture returns quantities matching NewQuoteFixtures.
// Totals: bitcoin 20000, ethereum 4000, cardano 250.
func NewHoldingsFixture() domain.Holdings {
	return domain.Holdings{
		"bitcoin":  0.5,
		"ethereum": 2,
		"cardano":  500,
	}
}

// NewMetadataFixtures returns stored metadata for the assets in NewQuoteFixtures
func NewMetadataFixtures() []domain.AssetMetadata {
	quotes := NewQuoteFixtures()
	out := make([]domain.AssetMetadata, len(quotes))
	for i, q := range quotes {
		out[i] = domain.AssetMetadata{
			ID:        q.ID,
			Symbol:    q.Symbol,
			Name:      q.Name,
			Price:     q.Price,
			Change24h: q.Change24h,
			Change7d:  q.Change7d,
		}
	}
	return out
}
