package charts

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/aristath/coinfolio/internal/domain"
)

const (
	// DefaultSize is the logical width and height of the donut chart
	DefaultSize = 250.0
	// DefaultInnerRatio is the hole radius relative to the outer radius
	DefaultInnerRatio = 0.6

	// startAngle is 12 o'clock
	startAngle = -math.Pi / 2
	fullTurn   = 2 * math.Pi
)

// Segment is one asset's wedge of the distribution donut.
// Angles are in radians, measured clockwise from 3 o'clock in screen space.
type Segment struct {
	AssetID    string  `json:"asset_id"`
	Name       string  `json:"name"`
	Symbol     string  `json:"symbol"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	Color      string  `json:"color"`
}

// Contains reports whether angle falls in [StartAngle, EndAngle)
func (s Segment) Contains(angle float64) bool {
	return angle >= s.StartAngle && angle < s.EndAngle
}

// Geometry places the donut on the drawing surface
type Geometry struct {
	CenterX     float64 `json:"center_x"`
	CenterY     float64 `json:"center_y"`
	OuterRadius float64 `json:"outer_radius"`
	InnerRadius float64 `json:"inner_radius"`
}

// NewGeometry centres a donut in a size x size square.
// Ratios outside [0, 1) fall back to DefaultInnerRatio.
func NewGeometry(size, innerRatio float64) Geometry {
	if size <= 0 {
		size = DefaultSize
	}
	if innerRatio < 0 || innerRatio >= 1 {
		innerRatio = DefaultInnerRatio
	}
	outer := size / 2
	return Geometry{
		CenterX:     size / 2,
		CenterY:     size / 2,
		OuterRadius: outer,
		InnerRadius: outer * innerRatio,
	}
}

// Size returns the side of the square the donut occupies
func (g Geometry) Size() float64 {
	return g.OuterRadius * 2
}

// Layout assigns every positive-value asset a wedge proportional to its value.
// Wedges are ordered by value descending (ties keep input order) and run
// clockwise from 12 o'clock; together they cover exactly one full turn.
func Layout(assets []domain.EnrichedAsset, palette Palette) []Segment {
	positive := make([]domain.EnrichedAsset, 0, len(assets))
	values := make([]float64, 0, len(assets))
	for _, a := range assets {
		if v := a.TotalValue(); v > 0 {
			positive = append(positive, a)
			values = append(values, v)
		}
	}
	if len(positive) == 0 {
		return []Segment{}
	}

	total := floats.Sum(values)
	if total <= 0 {
		return []Segment{}
	}

	sort.SliceStable(positive, func(i, j int) bool {
		return positive[i].TotalValue() > positive[j].TotalValue()
	})

	segments := make([]Segment, len(positive))
	angle := startAngle
	for i, a := range positive {
		value := a.TotalValue()
		end := angle + value/total*fullTurn
		if i == len(positive)-1 {
			end = startAngle + fullTurn
		}
		segments[i] = Segment{
			AssetID:    a.ID,
			Name:       a.Name,
			Symbol:     a.Symbol,
			Value:      value,
			Percentage: value / total * 100,
			StartAngle: angle,
			EndAngle:   end,
			Color:      palette.At(i),
		}
		angle = end
	}
	return segments
}

// HitTest returns the segment under p, if any.
// Points inside the hole, on either ring edge or outside the donut miss.
// A point exactly on a boundary belongs to the clockwise-next segment.
func HitTest(p Point, segments []Segment, g Geometry) (Segment, bool) {
	dx := p.X - g.CenterX
	dy := p.Y - g.CenterY
	dist := math.Hypot(dx, dy)
	if dist <= g.InnerRadius || dist >= g.OuterRadius {
		return Segment{}, false
	}

	angle := math.Atan2(dy, dx)
	if angle < startAngle {
		angle += fullTurn
	}

	for _, s := range segments {
		if s.Contains(angle) {
			return s, true
		}
	}
	return Segment{}, false
}

// RenderDistribution paints one wedge per segment and then punches the hole
// with the background colour.
func RenderDistribution(segments []Segment, g Geometry, background string) Drawing {
	size := g.Size()
	d := Drawing{Width: size, Height: size}
	if len(segments) == 0 {
		return d
	}
	if background == "" {
		background = DefaultBackground
	}

	for _, s := range segments {
		var wedge Path
		wedge.MoveTo(g.CenterX, g.CenterY)
		wedge.Arc(g.CenterX, g.CenterY, g.OuterRadius, s.StartAngle, s.EndAngle)
		wedge.LineTo(g.CenterX, g.CenterY)
		wedge.Close()
		d.Shapes = append(d.Shapes, Shape{
			Paint:   PaintFill,
			Path:    wedge,
			Color:   s.Color,
			Opacity: 1,
		})
	}

	if g.InnerRadius > 0 {
		var hole Path
		hole.Arc(g.CenterX, g.CenterY, g.InnerRadius, 0, fullTurn)
		hole.Close()
		d.Shapes = append(d.Shapes, Shape{
			Paint:   PaintFill,
			Path:    hole,
			Color:   background,
			Opacity: 1,
		})
	}
	return d
}

// Share is a legend row
type Share struct {
	AssetID    string  `json:"asset_id"`
	Name       string  `json:"name"`
	Symbol     string  `json:"symbol"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// Shares returns the legend rows for the largest limit segments and the
// number of segments left out. A non-positive limit keeps everything.
func Shares(segments []Segment, limit int) ([]Share, int) {
	if limit <= 0 || limit > len(segments) {
		limit = len(segments)
	}
	out := make([]Share, limit)
	for i, s := range segments[:limit] {
		out[i] = Share{
			AssetID:    s.AssetID,
			Name:       s.Name,
			Symbol:     s.Symbol,
			Percentage: s.Percentage,
			Color:      s.Color,
		}
	}
	return out, len(segments) - limit
}
