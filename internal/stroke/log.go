package stroke

import "math"

// The stroke log is an append-only ordered slice of committed strokes. The
// host note owns the slice; these operations return the updated log and never
// mutate committed entries.

// Append returns the log with s committed at the end.
func Append(log []Stroke, s Stroke) []Stroke {
	return append(log, s)
}

// Undo removes the most recent stroke. Undoing an empty log is a no-op.
func Undo(log []Stroke) []Stroke {
	if len(log) == 0 {
		return log
	}
	return log[:len(log)-1]
}

// Clear returns the empty log.
func Clear() []Stroke {
	return nil
}

// Rect is an axis-aligned bounding box on the logical plane.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width of the box.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height of the box.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Empty reports whether the box covers no area.
func (r Rect) Empty() bool { return r.MaxX <= r.MinX || r.MaxY <= r.MinY }

// Bounds computes the bounding box of a stroke, including its painted width
// and, for circles, the swept radius.
func (s Stroke) Bounds() Rect {
	if len(s.Points) == 0 {
		return Rect{}
	}

	r := Rect{
		MinX: s.Points[0].X, MaxX: s.Points[0].X,
		MinY: s.Points[0].Y, MaxY: s.Points[0].Y,
	}
	for _, p := range s.Points {
		r.MinX = math.Min(r.MinX, p.X)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}

	if s.Tool == ToolCircle && len(s.Points) >= 2 {
		c, e := s.Anchor(), s.End()
		radius := math.Hypot(e.X-c.X, e.Y-c.Y)
		r.MinX = math.Min(r.MinX, c.X-radius)
		r.MaxX = math.Max(r.MaxX, c.X+radius)
		r.MinY = math.Min(r.MinY, c.Y-radius)
		r.MaxY = math.Max(r.MaxY, c.Y+radius)
	}

	pad := s.Width / 2
	r.MinX -= pad
	r.MinY -= pad
	r.MaxX += pad
	r.MaxY += pad
	return r
}

// LogBounds is the union of every stroke's bounds; the zero Rect for an empty
// log.
func LogBounds(log []Stroke) Rect {
	if len(log) == 0 {
		return Rect{}
	}
	u := log[0].Bounds()
	for _, s := range log[1:] {
		b := s.Bounds()
		u.MinX = math.Min(u.MinX, b.MinX)
		u.MinY = math.Min(u.MinY, b.MinY)
		u.MaxX = math.Max(u.MaxX, b.MaxX)
		u.MaxY = math.Max(u.MaxY, b.MaxY)
	}
	return u
}
