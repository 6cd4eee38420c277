package view

import (
	"fmt"
	"strings"
)

// SortKey selects the comparator used to order the presented assets
type SortKey string

const (
	SortValueHigh  SortKey = "value-high"
	SortValueLow   SortKey = "value-low"
	SortNameAZ     SortKey = "name-a"
	SortNameZA     SortKey = "name-z"
	SortPriceHigh  SortKey = "price-high"
	SortPriceLow   SortKey = "price-low"
	SortChangeHigh SortKey = "change-high"
	SortChangeLow  SortKey = "change-low"

	// DefaultSortKey matches the initial selection of the asset list
	DefaultSortKey = SortValueHigh
)

// SortKeys lists every supported key in menu order
var SortKeys = []SortKey{
	SortValueHigh,
	SortValueLow,
	SortNameAZ,
	SortNameZA,
	SortPriceHigh,
	SortPriceLow,
	SortChangeHigh,
	SortChangeLow,
}

// ParseSortKey parses a sort key; an empty string yields DefaultSortKey.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultSortKey, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("invalid sort key: %s", s)
}

// Label returns the human readable description of the key
func (k SortKey) Label() string {
	switch k {
	case SortValueHigh:
		return "Value: High to Low"
	case SortValueLow:
		return "Value: Low to High"
	case SortNameAZ:
		return "Name: A to Z"
	case SortNameZA:
		return "Name: Z to A"
	case SortPriceHigh:
		return "Price: High to Low"
	case SortPriceLow:
		return "Price: Low to High"
	case SortChangeHigh:
		return "Change: High to Low"
	case SortChangeLow:
		return "Change: Low to High"
	default:
		return string(k)
	}
}
