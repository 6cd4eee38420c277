// Package render paints chart drawings onto gonum/plot vector canvases.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/aristath/coinfolio/internal/modules/charts"
)

// Format is an output encoding for a drawing
type Format string

const (
	FormatJSON Format = "json"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
)

// ParseFormat maps a query value onto a Format, defaulting to JSON
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatSVG, FormatPNG:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	}
	return "application/json"
}

// Draw paints d onto c. The drawing's y-down logical coordinates are flipped
// into the canvas' y-up space, so clockwise screen arcs become negative sweeps.
func Draw(c vg.Canvas, d charts.Drawing) error {
	for i, shape := range d.Shapes {
		col, err := shapeColor(shape)
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		path := toPath(shape.Path, d.Height)

		c.Push()
		c.SetColor(col)
		switch shape.Paint {
		case charts.PaintFill:
			c.Fill(path)
		case charts.PaintStroke:
			c.SetLineWidth(vg.Length(shape.LineWidth))
			c.Stroke(path)
		default:
			c.Pop()
			return fmt.Errorf("shape %d: unknown paint %q", i, shape.Paint)
		}
		c.Pop()
	}
	return nil
}

// WriteSVG encodes d as an SVG document one unit per logical pixel
func WriteSVG(w io.Writer, d charts.Drawing) error {
	c := vgsvg.New(vg.Length(d.Width), vg.Length(d.Height))
	if err := Draw(c, d); err != nil {
		return err
	}
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

// WritePNG rasterises d with a transparent background. The device pixel
// ratio scales the output so the image is Width*dpr by Height*dpr pixels.
func WritePNG(w io.Writer, d charts.Drawing, dpr float64) error {
	if dpr <= 0 {
		dpr = 1
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(d.Width), vg.Length(d.Height)),
		vgimg.UseDPI(int(math.Round(vg.Inch.Points()*dpr))),
		vgimg.UseBackgroundColor(color.Transparent),
	)
	if err := Draw(c, d); err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

func toPath(p charts.Path, height float64) vg.Path {
	var out vg.Path
	for _, cmd := range p {
		switch cmd.Op {
		case charts.OpMoveTo:
			out.Move(point(cmd.X, cmd.Y, height))
		case charts.OpLineTo:
			out.Line(point(cmd.X, cmd.Y, height))
		case charts.OpArc:
			out.Arc(point(cmd.X, cmd.Y, height), vg.Length(cmd.Radius), -cmd.Start, -(cmd.End - cmd.Start))
		case charts.OpClose:
			out.Close()
		}
	}
	return out
}

func point(x, y, height float64) vg.Point {
	return vg.Point{X: vg.Length(x), Y: vg.Length(height - y)}
}

func shapeColor(s charts.Shape) (color.Color, error) {
	c, err := charts.ParseColor(s.Color)
	if err != nil {
		return nil, err
	}
	opacity := s.Opacity
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(math.Round(float64(c.A) * opacity))
	return c, nil
}
