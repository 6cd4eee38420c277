package portfolio

import (
	"time"

	"github.com/aristath/coinfolio/internal/domain"
	"github.com/aristath/coinfolio/internal/modules/charts"
	"github.com/aristath/coinfolio/internal/modules/currency"
	"github.com/aristath/coinfolio/internal/modules/view"
)

// Source says where a snapshot's quotes came from
type Source string

const (
	// SourceLive quotes came from the provider (possibly its stale cache)
	SourceLive Source = "live"
	// SourceFallback quotes were synthesised from stored metadata
	SourceFallback Source = "fallback"
)

// Snapshot is the result of one valuation pass, in the base currency.
// It is replaced wholesale on every refresh and never mutated.
type Snapshot struct {
	ID        string                 `json:"id"`
	FetchedAt time.Time              `json:"fetched_at"`
	Source    Source                 `json:"source"`
	Assets    []domain.EnrichedAsset `json:"assets"`
	Totals    domain.PortfolioTotals `json:"totals"`
}

// Age returns how long ago the snapshot was taken
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Asset returns the enriched asset with the given id
func (s Snapshot) Asset(id string) (domain.EnrichedAsset, bool) {
	for _, a := range s.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return domain.EnrichedAsset{}, false
}

// View is a snapshot presented for display: filtered, sorted and converted
// into the display currency. Shares are computed from base values so they
// do not depend on the currency.
type View struct {
	SnapshotID  string                 `json:"snapshot_id"`
	FetchedAt   time.Time              `json:"fetched_at"`
	Source      Source                 `json:"source"`
	Currency    currency.Code          `json:"currency"`
	Rate        float64                `json:"rate"`
	Search      string                 `json:"search"`
	SortKey     view.SortKey           `json:"sort"`
	Assets      []domain.EnrichedAsset `json:"assets"`
	AssetCount  int                    `json:"asset_count"`
	Totals      domain.PortfolioTotals `json:"totals"`
	Shares      []charts.Share         `json:"shares"`
	OtherShares int                    `json:"other_shares"`
}
