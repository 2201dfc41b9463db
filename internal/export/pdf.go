// Package export writes a note's stroke log to PDF.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"inknote/internal/stroke"
)

// A4 portrait, millimetres.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 12.0
)

// layout maps logical drawing-plane coordinates onto the printable area,
// preserving aspect ratio.
type layout struct {
	bounds stroke.Rect
	scale  float64
}

func newLayout(log []stroke.Stroke) layout {
	b := stroke.LogBounds(log)
	l := layout{bounds: b, scale: 1}
	if b.Empty() {
		return l
	}
	l.scale = math.Min(
		(pageWidth-2*margin)/b.Width(),
		(pageHeight-2*margin)/b.Height(),
	)
	return l
}

func (l layout) point(p stroke.Point) (x, y float64) {
	return margin + (p.X-l.bounds.MinX)*l.scale,
		margin + (p.Y-l.bounds.MinY)*l.scale
}

func buildPDF(title string, log []stroke.Stroke) *gofpdf.Fpdf {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle(title, true)
	p.AddPage()

	l := newLayout(log)
	for _, s := range log {
		drawStroke(p, l, s)
	}
	return p
}

// WritePDF renders the committed log onto a single A4 page at path. An empty
// log produces a blank page rather than an error.
func WritePDF(path, title string, log []stroke.Stroke) error {
	if err := buildPDF(title, log).OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// Write renders the committed log as a PDF document to w.
func Write(w io.Writer, title string, log []stroke.Stroke) error {
	if err := buildPDF(title, log).Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawStroke(p *gofpdf.Fpdf, l layout, s stroke.Stroke) {
	if len(s.Points) == 0 {
		return
	}

	style := stroke.StyleFor(s)
	col := style.Color
	if style.Composite == stroke.CompositeClear {
		// No destructive composite on paper: erased regions print as
		// opaque white, matching the on-screen fallback.
		col = stroke.Color{R: 255, G: 255, B: 255, A: 255}
	}
	p.SetDrawColor(int(col.R), int(col.G), int(col.B))
	p.SetFillColor(int(col.R), int(col.G), int(col.B))
	p.SetLineWidth(math.Max(style.Width*l.scale, 0.2))
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")
	p.SetAlpha(style.Opacity, "Normal")
	defer p.SetAlpha(1.0, "Normal")

	switch s.Tool {
	case stroke.ToolRectangle:
		ax, ay := l.point(s.Anchor())
		ex, ey := l.point(s.End())
		mode := "D"
		if s.Filled {
			mode = "F"
		}
		p.Rect(math.Min(ax, ex), math.Min(ay, ey), math.Abs(ex-ax), math.Abs(ey-ay), mode)

	case stroke.ToolCircle:
		ax, ay := l.point(s.Anchor())
		ex, ey := l.point(s.End())
		mode := "D"
		if s.Filled {
			mode = "F"
		}
		p.Circle(ax, ay, math.Hypot(ex-ax, ey-ay), mode)

	default:
		// Pen, eraser, highlighter, and line all reduce to segments.
		if len(s.Points) == 1 {
			x, y := l.point(s.Points[0])
			p.Circle(x, y, math.Max(style.Width*l.scale/2, 0.2), "F")
			return
		}
		for i := 1; i < len(s.Points); i++ {
			x1, y1 := l.point(s.Points[i-1])
			x2, y2 := l.point(s.Points[i])
			p.Line(x1, y1, x2, y2)
		}
	}
}
