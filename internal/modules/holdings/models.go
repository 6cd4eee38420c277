// Package holdings manages the tracked assets, their quantities and stored metadata.
package holdings

import (
	"github.com/aristath/coinfolio/internal/domain"
)

// Entry is a tracked asset with its held quantity
type Entry struct {
	domain.AssetMetadata
	Quantity float64 `json:"quantity"`
}

// NewAsset is the input for adding an asset to the portfolio
type NewAsset struct {
	ID        string  `json:"id"`
	Quantity  float64 `json:"quantity"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"current_price"`
	Change24h float64 `json:"price_change_percentage_24h"`
	Change7d  float64 `json:"price_change_percentage_7d"`
}

// MetadataPatch is a partial metadata update. Nil fields are left unchanged.
type MetadataPatch struct {
	Symbol    *string  `json:"symbol,omitempty"`
	Name      *string  `json:"name,omitempty"`
	Image     *string  `json:"image,omitempty"`
	Price     *float64 `json:"current_price,omitempty"`
	Change24h *float64 `json:"price_change_percentage_24h,omitempty"`
	Change7d  *float64 `json:"price_change_percentage_7d,omitempty"`
}

// Apply returns m with the patch's non-nil fields applied
func (p MetadataPatch) Apply(m domain.AssetMetadata) domain.AssetMetadata {
	if p.Symbol != nil {
		m.Symbol = *p.Symbol
	}
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Image != nil {
		m.Image = *p.Image
	}
	if p.Price != nil {
		m.Price = *p.Price
	}
	if p.Change24h != nil {
		m.Change24h = *p.Change24h
	}
	if p.Change7d != nil {
		m.Change7d = *p.Change7d
	}
	return m
}

// Empty reports whether the patch changes nothing
func (p MetadataPatch) Empty() bool {
	return p.Symbol == nil && p.Name == nil && p.Image == nil &&
		p.Price == nil && p.Change24h == nil && p.Change7d == nil
}
