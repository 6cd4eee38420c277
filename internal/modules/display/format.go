// Package display formats portfolio numbers for people.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DateLayout renders dates like "Mar 5, 2024"
const DateLayout = "Jan 2, 2006"

// FormatCurrency renders value in the given ISO currency with two decimals
// and thousands separators, e.g. "$1,234.56". Unknown codes fall back to
// "1234.56 XYZ".
func FormatCurrency(value float64, code string) string {
	code = strings.ToUpper(code)
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%.2f %s", value, code)
	}

	// go-money works in minor units
	factor := decimal.New(1, int32(cur.Fraction))
	minor := decimal.NewFromFloat(value).Mul(factor).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// FormatLargeNumber abbreviates with B, M or K and two decimals
func FormatLargeNumber(value float64) string {
	switch {
	case value >= 1e9:
		return fmt.Sprintf("%.2fB", value/1e9)
	case value >= 1e6:
		return fmt.Sprintf("%.2fM", value/1e6)
	case value >= 1e3:
		return fmt.Sprintf("%.2fK", value/1e3)
	default:
		return fmt.Sprintf("%.2f", value)
	}
}

// FormatPercentage renders a signed percentage, e.g. "+2.10%" or "-0.80%".
// Zero is always "0.00%".
func FormatPercentage(value float64, decimals int) string {
	if value == 0 {
		return "0.00%"
	}
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.*f%%", sign, decimals, value)
}

// FormatQuantity renders a held quantity followed by the upper-cased symbol.
// Precision grows as the quantity shrinks.
func FormatQuantity(quantity float64, symbol string) string {
	symbol = strings.ToUpper(symbol)

	var s string
	switch {
	case quantity >= 1000:
		s = commaf(quantity, 3)
	case quantity < 0.001:
		s = fmt.Sprintf("%.8f", quantity)
	case quantity < 1:
		s = fmt.Sprintf("%.4f", quantity)
	default:
		s = commaf(quantity, 2)
	}
	return s + " " + symbol
}

// FormatDate renders t like "Mar 5, 2024"
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// commaf rounds to at most places decimals and adds thousands separators
func commaf(v float64, places int32) string {
	rounded := decimal.NewFromFloat(v).Round(places).InexactFloat64()
	return humanize.Commaf(rounded)
}
