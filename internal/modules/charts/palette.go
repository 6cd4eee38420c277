package charts

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/aristath/coinfolio/internal/utils"
)

// Palette is a cyclic list of hex colours
type Palette []string

// DefaultPalette is used for distribution segments when none is configured
var DefaultPalette = Palette{
	"#3b82f6", // blue
	"#8b5cf6", // purple
	"#ec4899", // pink
	"#ef4444", // red
	"#f97316", // orange
	"#f59e0b", // amber
	"#10b981", // emerald
	"#06b6d4", // cyan
	"#6366f1", // indigo
	"#a855f7", // violet
}

const (
	// PositiveColor strokes sparklines of assets up over 24h
	PositiveColor = "#10b981"
	// NegativeColor strokes sparklines of assets down over 24h
	NegativeColor = "#ef4444"
	// DefaultBackground fills the donut hole
	DefaultBackground = "#ffffff"
)

// At returns the colour for position i, cycling through the palette.
// An empty palette falls back to DefaultPalette.
func (p Palette) At(i int) string {
	if len(p) == 0 {
		return DefaultPalette.At(i)
	}
	if i < 0 {
		i = -i
	}
	return p[i%len(p)]
}

// TrendColor picks the sparkline colour from the sign of a 24h change
func TrendColor(change24h float64) string {
	if change24h >= 0 {
		return PositiveColor
	}
	return NegativeColor
}

// ParsePalette parses a comma separated list of hex colours
func ParsePalette(s string) (Palette, error) {
	var p Palette
	for _, c := range utils.ParseCSV(s) {
		if _, err := ParseColor(c); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(c, "#") {
			c = "#" + c
		}
		p = append(p, strings.ToLower(c))
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("empty palette")
	}
	return p, nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa" (the "#" is optional)
func ParseColor(hash string) (color.NRGBA, error) {
	hash = strings.TrimPrefix(hash, "#")
	if len(hash) != 6 && len(hash) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: expected 6 or 8 hex digits", hash)
	}

	c := color.NRGBA{A: 255}
	cs := []*uint8{&c.R, &c.G, &c.B, &c.A}
	for i := 0; i < len(hash); i += 2 {
		ui, err := strconv.ParseUint(hash[i:i+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", hash, err)
		}
		*cs[i/2] = uint8(ui)
	}
	return c, nil
}
