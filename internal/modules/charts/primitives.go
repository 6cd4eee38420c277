package charts

import (
	"encoding/json"
	"fmt"
)

// Point is a position in logical (device-independent) pixels.
// The origin is the top-left corner and Y grows downwards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the logical size of a drawing surface
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Op identifies a path command
type Op int

const (
	OpMoveTo Op = iota
	OpLineTo
	OpArc
	OpClose
)

var opNames = map[Op]string{
	OpMoveTo: "move",
	OpLineTo: "line",
	OpArc:    "arc",
	OpClose:  "close",
}

// String returns the wire name of the op
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// MarshalJSON encodes the op by name
func (o Op) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// PathCommand is a single path instruction.
//
// For OpMoveTo and OpLineTo, X/Y is the target point. For OpArc, X/Y is the
// centre and the arc runs clockwise from Start to End (radians, 0 = 3 o'clock).
type PathCommand struct {
	Op     Op      `json:"op"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	Start  float64 `json:"start,omitempty"`
	End    float64 `json:"end,omitempty"`
}

// Path is an ordered list of path commands
type Path []PathCommand

// MoveTo starts a new sub-path at (x, y)
func (p *Path) MoveTo(x, y float64) {
	*p = append(*p, PathCommand{Op: OpMoveTo, X: x, Y: y})
}

// LineTo adds a straight segment to (x, y)
func (p *Path) LineTo(x, y float64) {
	*p = append(*p, PathCommand{Op: OpLineTo, X: x, Y: y})
}

// Arc adds a clockwise arc of radius r around (cx, cy) from start to end
func (p *Path) Arc(cx, cy, r, start, end float64) {
	*p = append(*p, PathCommand{Op: OpArc, X: cx, Y: cy, Radius: r, Start: start, End: end})
}

// Close closes the current sub-path
func (p *Path) Close() {
	*p = append(*p, PathCommand{Op: OpClose})
}

// Vertices returns the points of all move and line commands, in order
func (p Path) Vertices() []Point {
	var pts []Point
	for _, cmd := range p {
		if cmd.Op == OpMoveTo || cmd.Op == OpLineTo {
			pts = append(pts, Point{X: cmd.X, Y: cmd.Y})
		}
	}
	return pts
}

// Paint says how a shape is applied to the surface
type Paint string

const (
	PaintStroke Paint = "stroke"
	PaintFill   Paint = "fill"
)

// Shape is a painted path
type Shape struct {
	Paint     Paint   `json:"paint"`
	Path      Path    `json:"path"`
	Color     string  `json:"color"`
	Opacity   float64 `json:"opacity"`
	LineWidth float64 `json:"line_width,omitempty"`
}

// Drawing is a host-independent list of shapes in painting order.
// Hosts scale logical coordinates by their device pixel ratio.
type Drawing struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Shapes []Shape `json:"shapes"`
}

// Empty reports whether there is nothing to paint
func (d Drawing) Empty() bool {
	return len(d.Shapes) == 0
}
