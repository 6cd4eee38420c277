// Package valuation turns raw quotes and held quantities into enriched
// assets and portfolio-level totals.
package valuation

import (
	"github.com/aristath/coinfolio/internal/domain"
)

// Aggregate enriches every quote with its held quantity and rolls the
// results into portfolio totals.
//
// Quotes are visited in input order so the floating-point summation is
// reproducible. Assets absent from holdings are held at zero. All values stay
// in the base currency; conversion happens at presentation time only.
//
// The function is pure and safe to call concurrently.
func Aggregate(quotes []domain.AssetQuote, holdings domain.Holdings) ([]domain.EnrichedAsset, domain.PortfolioTotals) {
	enriched := make([]domain.EnrichedAsset, 0, len(quotes))

	var totals domain.PortfolioTotals
	for _, quote := range quotes {
		asset := domain.EnrichedAsset{
			AssetQuote: quote,
			Quantity:   holdings.Quantity(quote.ID),
		}
		enriched = append(enriched, asset)

		value := asset.TotalValue()
		totals.TotalValue += value
		totals.DailyChange += value * quote.Change24h / 100
	}

	totals.DailyChangePercentage = ChangePercentage(totals.DailyChange, totals.TotalValue)

	return enriched, totals
}

// ChangePercentage returns change as a percentage of total.
// A non-positive total yields 0 instead of NaN or ±Inf.
func ChangePercentage(change, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return change / total * 100
}

// Share returns value as a percentage of total, 0 when total is not positive.
// Used for the per-asset "portfolio %" figure, always against the live total.
func Share(value, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return value / total * 100
}
