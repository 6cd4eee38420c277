// Package domain provides core domain models and types.
package domain

import (
	"encoding/json"
	"time"
)

// AssetQuote is an immutable price snapshot for one asset, in the base currency.
// A fresh set is produced on every fetch cycle and replaces the previous one wholesale.
type AssetQuote struct {
	ID        string    `json:"id" msgpack:"id"`
	Symbol    string    `json:"symbol" msgpack:"symbol"`
	Name      string    `json:"name" msgpack:"name"`
	Image     string    `json:"image,omitempty" msgpack:"image"`
	Price     float64   `json:"current_price" msgpack:"price"`
	Change24h float64   `json:"price_change_percentage_24h" msgpack:"change_24h"`
	Change7d  float64   `json:"price_change_percentage_7d" msgpack:"change_7d"`
	Sparkline []float64 `json:"sparkline_7d" msgpack:"sparkline"` // Fixed cadence samples, oldest first
}

// Holdings maps an asset identifier to the held quantity.
// Absent identifiers are held at zero.
type Holdings map[string]float64

// Quantity returns the held quantity for id, 0 when absent.
func (h Holdings) Quantity(id string) float64 {
	if h == nil {
		return 0
	}
	return h[id]
}

// EnrichedAsset is a quote joined with the held quantity.
// The total value is derived on every read and never stored.
type EnrichedAsset struct {
	AssetQuote
	Quantity float64 `json:"quantity"`
}

// TotalValue returns price × quantity in the base currency.
func (a EnrichedAsset) TotalValue() float64 {
	return a.Price * a.Quantity
}

// MarshalJSON adds the derived total_value to the encoded asset.
func (a EnrichedAsset) MarshalJSON() ([]byte, error) {
	type alias struct {
		AssetQuote
		Quantity   float64 `json:"quantity"`
		TotalValue float64 `json:"total_value"`
	}
	return json.Marshal(alias{
		AssetQuote: a.AssetQuote,
		Quantity:   a.Quantity,
		TotalValue: a.TotalValue(),
	})
}

// PortfolioTotals aggregates all enriched assets of one valuation pass.
type PortfolioTotals struct {
	TotalValue            float64 `json:"total_value"`
	DailyChange           float64 `json:"daily_change"`
	DailyChangePercentage float64 `json:"daily_change_percentage"`
}

// AssetMetadata is the stored description of an asset in the holdings store.
// Price fields are the last known values and seed the fallback quote set.
type AssetMetadata struct {
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Price     float64   `json:"current_price"`
	Change24h float64   `json:"price_change_percentage_24h"`
	Change7d  float64   `json:"price_change_percentage_7d"`
}

// Quote converts the metadata into a quote without a price series.
func (m AssetMetadata) Quote() AssetQuote {
	return AssetQuote{
		ID:        m.ID,
		Symbol:    m.Symbol,
		Name:      m.Name,
		Image:     m.Image,
		Price:     m.Price,
		Change24h: m.Change24h,
		Change7d:  m.Change7d,
	}
}
