// Package export writes portfolio rows as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aristath/coinfolio/internal/domain"
	"github.com/aristath/coinfolio/internal/modules/display"
	"github.com/shopspring/decimal"
)

// Header is the first CSV row
var Header = []string{"Coin", "Symbol", "Price", "24h Change", "Quantity", "Value"}

// WriteCSV writes one row per asset, in the given order
func WriteCSV(w io.Writer, assets []domain.EnrichedAsset) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, a := range assets {
		row := []string{
			a.Name,
			strings.ToUpper(a.Symbol),
			number(a.Price),
			number(a.Change24h),
			number(a.Quantity),
			number(a.TotalValue()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", a.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// Filename returns the download name for an export made at t,
// e.g. "crypto-portfolio-Mar 5 2024.csv"
func Filename(t time.Time) string {
	return fmt.Sprintf("crypto-portfolio-%s.csv", strings.ReplaceAll(display.FormatDate(t), ",", ""))
}

// number renders v in its shortest decimal form
func number(v float64) string {
	return decimal.NewFromFloat(v).String()
}
