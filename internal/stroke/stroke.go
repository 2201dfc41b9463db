// Package stroke holds the pure data model for drawn strokes and the
// append-only stroke log of a page. No rendering, no I/O.
package stroke

import (
	"image/color"

	"github.com/google/uuid"
)

// Tool identifies how a stroke was drawn and how it must be painted.
type Tool string

const (
	ToolPen         Tool = "pen"
	ToolEraser      Tool = "eraser"
	ToolHighlighter Tool = "highlighter"
	ToolRectangle   Tool = "rectangle"
	ToolCircle      Tool = "circle"
	ToolLine        Tool = "line"
	// ToolPan is an interaction mode, never a committed stroke.
	ToolPan Tool = "pan"
)

// Freehand reports whether the tool accumulates every sampled point. Shape
// tools keep only the anchor and the latest pointer position.
func (t Tool) Freehand() bool {
	return t == ToolPen || t == ToolEraser || t == ToolHighlighter
}

// Point is a location on the logical drawing plane, with optional input
// pressure in [0,1] (zero when the device reports none). Immutable once
// recorded.
type Point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure,omitempty"`
}

// Color is an opaque serializable color value.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// NRGBA converts to the stdlib color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// FromColor converts any color.Color into the serializable form.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// Stroke is one committed drawing action. For freehand tools Points is the
// full sampled polyline; for shape tools it is exactly [anchor, end].
type Stroke struct {
	ID     string  `json:"id"`
	Points []Point `json:"points"`
	Color  Color   `json:"color"`
	Width  float64 `json:"width"`
	Tool   Tool    `json:"tool"`
	Filled bool    `json:"isFilled,omitempty"`
}

// New creates an in-progress stroke seeded with its first sample.
func New(tool Tool, c Color, width float64, first Point) *Stroke {
	return &Stroke{
		ID:     uuid.NewString(),
		Points: []Point{first},
		Color:  c,
		Width:  width,
		Tool:   tool,
	}
}

// Extend records the next pointer sample. Freehand tools append; shape tools
// replace everything after the anchor so Points stays [anchor, latest].
func (s *Stroke) Extend(p Point) {
	if s.Tool.Freehand() {
		s.Points = append(s.Points, p)
		return
	}
	s.Points = append(s.Points[:1], p)
}

// Anchor returns the first recorded point.
func (s *Stroke) Anchor() Point {
	return s.Points[0]
}

// End returns the most recent recorded point.
func (s *Stroke) End() Point {
	return s.Points[len(s.Points)-1]
}
