package portfolio

import (
	"hash/fnv"
	"math/rand"

	"github.com/aristath/coinfolio/internal/domain"
)

const (
	// FallbackSamples is one week of hourly samples
	FallbackSamples = 7 * 24

	// Total random-walk range relative to the price, and the share of it one step may move
	fallbackVariation = 0.075
	fallbackStep      = 0.1
)

// FallbackQuotes builds quotes from stored metadata when the provider is down.
// Each asset gets a synthetic week of prices seeded by its id, so repeated
// calls produce identical series.
func FallbackQuotes(metadata []domain.AssetMetadata) []domain.AssetQuote {
	quotes := make([]domain.AssetQuote, len(metadata))
	for i, m := range metadata {
		q := m.Quote()
		q.Sparkline = FallbackSeries(m.ID, m.Price, FallbackSamples)
		quotes[i] = q
	}
	return quotes
}

// FallbackSeries returns an n-sample random walk starting at price
func FallbackSeries(id string, price float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	variation := price * fallbackVariation
	series := make([]float64, n)
	last := price
	for i := range series {
		last += (rng.Float64() - 0.5) * variation * fallbackStep
		series[i] = last
	}
	return series
}
