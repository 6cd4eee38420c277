// Package view derives the displayed, ordered asset list from the enriched
// portfolio: search filtering followed by a stable sort.
package view

import (
	"sort"
	"strings"

	"github.com/aristath/coinfolio/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Present filters assets by searchTerm and orders them by key.
//
// The input slice is never modified; a new slice is returned on every call.
// Sorting is stable so assets comparing equal keep their input order.
func Present(assets []domain.EnrichedAsset, searchTerm string, key SortKey) []domain.EnrichedAsset {
	presented := Filter(assets, searchTerm)

	less := comparator(key)
	if less == nil {
		return presented
	}

	sort.SliceStable(presented, func(i, j int) bool {
		return less(presented[i], presented[j])
	})

	return presented
}

// Filter keeps the assets whose name or symbol contains searchTerm,
// case-insensitively. A blank term keeps everything.
func Filter(assets []domain.EnrichedAsset, searchTerm string) []domain.EnrichedAsset {
	filtered := make([]domain.EnrichedAsset, 0, len(assets))

	if strings.TrimSpace(searchTerm) == "" {
		return append(filtered, assets...)
	}

	needle := strings.ToLower(searchTerm)
	for _, asset := range assets {
		if strings.Contains(strings.ToLower(asset.Name), needle) ||
			strings.Contains(strings.ToLower(asset.Symbol), needle) {
			filtered = append(filtered, asset)
		}
	}

	return filtered
}

// comparator returns a strict "less" for key, nil for an unknown key.
// Numeric fields decode to 0 when the feed omits them, so no extra
// defaulting is needed here.
func comparator(key SortKey) func(a, b domain.EnrichedAsset) bool {
	switch key {
	case SortValueHigh:
		return func(a, b domain.EnrichedAsset) bool { return a.TotalValue() > b.TotalValue() }
	case SortValueLow:
		return func(a, b domain.EnrichedAsset) bool { return a.TotalValue() < b.TotalValue() }
	case SortPriceHigh:
		return func(a, b domain.EnrichedAsset) bool { return a.Price > b.Price }
	case SortPriceLow:
		return func(a, b domain.EnrichedAsset) bool { return a.Price < b.Price }
	case SortChangeHigh:
		return func(a, b domain.EnrichedAsset) bool { return a.Change24h > b.Change24h }
	case SortChangeLow:
		return func(a, b domain.EnrichedAsset) bool { return a.Change24h < b.Change24h }
	case SortNameAZ, SortNameZA:
		// Collators keep internal buffers and are not safe for concurrent use
		c := collate.New(language.English)
		if key == SortNameAZ {
			return func(a, b domain.EnrichedAsset) bool { return c.CompareString(a.Name, b.Name) < 0 }
		}
		return func(a, b domain.EnrichedAsset) bool { return c.CompareString(b.Name, a.Name) < 0 }
	default:
		return nil
	}
}
