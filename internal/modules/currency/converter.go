// Package currency converts base-currency amounts into display currencies
// using fixed multiplicative rates.
package currency

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aristath/coinfolio/internal/utils"
)

// Code is an ISO 4217 currency code
type Code string

const (
	USD Code = "USD"
	CAD Code = "CAD"
	INR Code = "INR"
)

// ErrUnsupportedCurrency is returned for codes without a configured rate
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// DefaultRates are the build-time rates relative to USD.
func DefaultRates() map[Code]float64 {
	return map[Code]float64{
		USD: 1,
		CAD: 1.36,
		INR: 83.0,
	}
}

// Converter converts amounts held in the base currency.
// It is immutable after construction and safe for concurrent use.
type Converter struct {
	base  Code
	rates map[Code]float64
}

// NewConverter creates a converter for base using the given multipliers.
// The base currency always converts at exactly 1, whatever rates says.
func NewConverter(base Code, rates map[Code]float64) *Converter {
	r := make(map[Code]float64, len(rates)+1)
	for code, rate := range rates {
		r[Normalize(string(code))] = rate
	}
	base = Normalize(string(base))
	r[base] = 1

	return &Converter{base: base, rates: r}
}

// Base returns the canonical currency all portfolio values are held in
func (c *Converter) Base() Code {
	return c.base
}

// Rate returns the multiplier from the base currency to target
func (c *Converter) Rate(target Code) (float64, error) {
	if target == "" {
		return 1, nil
	}
	rate, ok := c.rates[Normalize(string(target))]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, target)
	}
	return rate, nil
}

// Convert converts amountInBase into target. An empty target means the base currency.
func (c *Converter) Convert(amountInBase float64, target Code) (float64, error) {
	rate, err := c.Rate(target)
	if err != nil {
		return 0, err
	}
	return amountInBase * rate, nil
}

// Supported returns the configured codes, base first, the rest sorted.
func (c *Converter) Supported() []Code {
	codes := make([]Code, 0, len(c.rates))
	for code := range c.rates {
		if code != c.base {
			codes = append(codes, code)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return append([]Code{c.base}, codes...)
}

// Normalize upper-cases and trims a currency code
func Normalize(code string) Code {
	return Code(strings.ToUpper(strings.TrimSpace(code)))
}

// ParseRates parses "CAD:1.36,INR:83" into a rate table.
func ParseRates(s string) (map[Code]float64, error) {
	rates := make(map[Code]float64)
	for _, pair := range utils.ParseCSV(s) {
		code, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid rate %q: expected CODE:RATE", pair)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rate %q: %w", pair, err)
		}
		if rate <= 0 {
			return nil, fmt.Errorf("invalid rate %q: must be positive", pair)
		}
		rates[Normalize(code)] = rate
	}

	return rates, nil
}

// Names maps known codes to display names and symbols
var Names = map[Code]struct {
	Name   string
	Symbol string
}{
	USD: {Name: "US Dollar", Symbol: "$"},
	CAD: {Name: "Canadian Dollar", Symbol: "CA$"},
	INR: {Name: "Indian Rupee", Symbol: "₹"},
}
