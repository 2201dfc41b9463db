package stroke

// Composite selects how painted pixels combine with the surface.
type Composite int

const (
	// CompositeOver blends the stroke color over existing pixels.
	CompositeOver Composite = iota
	// CompositeClear removes underlying pixels instead of drawing over
	// them; on an opaque surface this restores the paper color.
	CompositeClear
)

// Tool-fixed widths assigned when a stroke is created.
const (
	EraserWidth      = 20.0
	HighlighterWidth = 15.0
)

// HighlighterOpacity is the fixed reduced opacity of highlighter strokes.
const HighlighterOpacity = 0.4

// PaintStyle is the complete per-stroke paint descriptor. It is computed once
// from the stroke's tool before painting, so no composite or alpha state ever
// leaks from one stroke to the next.
type PaintStyle struct {
	Color     Color
	Width     float64
	Opacity   float64
	Composite Composite
}

// StyleFor derives the paint descriptor for a stroke.
func StyleFor(s Stroke) PaintStyle {
	st := PaintStyle{
		Color:     s.Color,
		Width:     s.Width,
		Opacity:   1.0,
		Composite: CompositeOver,
	}
	switch s.Tool {
	case ToolEraser:
		st.Composite = CompositeClear
	case ToolHighlighter:
		st.Opacity = HighlighterOpacity
	}
	return st
}
