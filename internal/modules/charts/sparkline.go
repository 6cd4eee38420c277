package charts

import (
	"gonum.org/v1/gonum/floats"
)

// DefaultPadding is the vertical padding, split evenly above and below the line
const DefaultPadding = 4.0

// SparklineStyle controls how a sparkline is painted
type SparklineStyle struct {
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"stroke_width"`
	FillOpacity float64 `json:"fill_opacity"` // 0 disables the fill
	Padding     float64 `json:"padding"`      // 0 means DefaultPadding
}

// DefaultSparklineStyle returns the style used by the asset table
func DefaultSparklineStyle() SparklineStyle {
	return SparklineStyle{
		Color:       PositiveColor,
		StrokeWidth: 1.5,
		FillOpacity: 0.1,
		Padding:     DefaultPadding,
	}
}

// SparklinePoints maps a price series onto the viewport.
// A flat series is drawn through the vertical middle; a single sample sits
// at the horizontal centre.
func SparklinePoints(series []float64, vp Viewport, padding float64) []Point {
	n := len(series)
	if n == 0 {
		return nil
	}
	if padding == 0 {
		padding = DefaultPadding
	}

	lo := floats.Min(series)
	span := floats.Max(series) - lo

	pts := make([]Point, n)
	for i, v := range series {
		x := vp.Width / 2
		if n > 1 {
			x = float64(i) / float64(n-1) * vp.Width
		}

		norm := 0.5
		if span != 0 {
			norm = (v - lo) / span
		}

		pts[i] = Point{
			X: x,
			Y: vp.Height - norm*(vp.Height-padding) - padding/2,
		}
	}
	return pts
}

// RenderSparkline produces the drawing for a price series.
// The optional fill is painted first so the stroke sits on top of it.
func RenderSparkline(series []float64, vp Viewport, style SparklineStyle) Drawing {
	d := Drawing{Width: vp.Width, Height: vp.Height}

	pts := SparklinePoints(series, vp, style.Padding)
	if len(pts) == 0 {
		return d
	}

	var line Path
	line.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		line.LineTo(p.X, p.Y)
	}

	if style.FillOpacity > 0 {
		area := make(Path, len(line), len(line)+3)
		copy(area, line)
		area.LineTo(vp.Width, vp.Height)
		area.LineTo(0, vp.Height)
		area.Close()

		d.Shapes = append(d.Shapes, Shape{
			Paint:   PaintFill,
			Path:    area,
			Color:   style.Color,
			Opacity: style.FillOpacity,
		})
	}

	d.Shapes = append(d.Shapes, Shape{
		Paint:     PaintStroke,
		Path:      line,
		Color:     style.Color,
		Opacity:   1,
		LineWidth: style.StrokeWidth,
	})
	return d
}
