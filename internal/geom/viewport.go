// Package geom maps between screen pixels and the infinite logical drawing
// plane under a pan/zoom viewport.
package geom

// Point is a location in either screen or logical coordinates, depending on
// context.
type Point struct {
	X float64
	Y float64
}

// Zoom limits shared by the wheel, the slider, and the +/- buttons.
const (
	MinScale = 0.1
	MaxScale = 5.0
)

// WheelStep is the relative zoom intensity per wheel notch (10% of the
// current scale).
const WheelStep = 0.1

// ButtonStep is the fixed scale increment of the +/- zoom buttons.
const ButtonStep = 0.25

// Viewport is the affine mapping from the logical plane to screen pixels:
// X,Y are the screen offset of the logical origin, Scale the uniform zoom.
type Viewport struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// DefaultViewport returns the identity mapping.
func DefaultViewport() Viewport {
	return Viewport{X: 0, Y: 0, Scale: 1.0}
}

// ClampScale saturates s to [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// ToLogical converts a screen-space point (relative to the canvas origin) to
// logical drawing-plane coordinates.
func (v Viewport) ToLogical(p Point) Point {
	return Point{
		X: (p.X - v.X) / v.Scale,
		Y: (p.Y - v.Y) / v.Scale,
	}
}

// ToScreen converts a logical point to screen pixels.
func (v Viewport) ToScreen(p Point) Point {
	return Point{
		X: p.X*v.Scale + v.X,
		Y: p.Y*v.Scale + v.Y,
	}
}

// Pan translates the viewport by a raw screen-space delta; one screen pixel
// of pan is one pixel regardless of Scale.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.X += dx
	v.Y += dy
	return v
}

// ZoomAt rescales the viewport to the clamped scale so that the logical point
// currently under the screen anchor stays under it.
func (v Viewport) ZoomAt(anchor Point, scale float64) Viewport {
	scale = ClampScale(scale)
	world := v.ToLogical(anchor)
	return Viewport{
		X:     anchor.X - world.X*scale,
		Y:     anchor.Y - world.Y*scale,
		Scale: scale,
	}
}
