package render

import (
	"image"
	"math"

	"inknote/internal/geom"
	"inknote/internal/stroke"
)

// coverage is the pixel mask one stroke paints. The stroke's style is applied
// to the mask in a single pass afterwards, so composite mode and opacity are
// scoped to the stroke and translucent strokes stay uniform where segments
// overlap.
type coverage struct {
	rect image.Rectangle
	bits []uint8
}

func newCoverage(r image.Rectangle) *coverage {
	return &coverage{rect: r, bits: make([]uint8, r.Dx()*r.Dy())}
}

func (c *coverage) set(x, y int) {
	if x < c.rect.Min.X || x >= c.rect.Max.X || y < c.rect.Min.Y || y >= c.rect.Max.Y {
		return
	}
	c.bits[(y-c.rect.Min.Y)*c.rect.Dx()+(x-c.rect.Min.X)] = 1
}

// apply paints the mask onto img with the stroke's paint descriptor.
func (c *coverage) apply(img *image.RGBA, style stroke.PaintStyle) {
	col := style.Color.NRGBA()
	for y := c.rect.Min.Y; y < c.rect.Max.Y; y++ {
		row := (y - c.rect.Min.Y) * c.rect.Dx()
		for x := c.rect.Min.X; x < c.rect.Max.X; x++ {
			if c.bits[row+(x-c.rect.Min.X)] == 0 {
				continue
			}
			if style.Composite == stroke.CompositeClear {
				o := img.PixOffset(x, y)
				img.Pix[o+0] = Paper.R
				img.Pix[o+1] = Paper.G
				img.Pix[o+2] = Paper.B
				img.Pix[o+3] = 255
				continue
			}
			blendPixel(img, x, y, col, style.Opacity)
		}
	}
}

func paintStroke(img *image.RGBA, vp geom.Viewport, s stroke.Stroke) {
	if len(s.Points) == 0 {
		return
	}
	style := stroke.StyleFor(s)
	cov := newCoverage(img.Bounds())

	// Half the painted width in screen pixels; at least half a pixel so a
	// stroke never vanishes when zoomed far out.
	radius := style.Width * vp.Scale / 2
	if radius < 0.5 {
		radius = 0.5
	}

	switch s.Tool {
	case stroke.ToolPen, stroke.ToolEraser, stroke.ToolHighlighter:
		paintPolyline(cov, vp, s.Points, radius)
	case stroke.ToolLine:
		a, b := vp.ToScreen(toGeom(s.Anchor())), vp.ToScreen(toGeom(s.End()))
		stampSegment(cov, a, b, radius, radius)
	case stroke.ToolRectangle:
		paintRectangle(cov, vp, s, radius)
	case stroke.ToolCircle:
		paintCircle(cov, vp, s, radius)
	}

	cov.apply(img, style)
}

func toGeom(p stroke.Point) geom.Point {
	return geom.Point{X: p.X, Y: p.Y}
}

// pressureRadius modulates the base radius by recorded pen pressure, when
// the input device supplied any.
func pressureRadius(base float64, p stroke.Point) float64 {
	if p.Pressure <= 0 {
		return base
	}
	r := base * p.Pressure
	if r < 0.5 {
		r = 0.5
	}
	return r
}

// paintPolyline stamps discs along every segment, which yields round caps and
// round joins for free.
func paintPolyline(cov *coverage, vp geom.Viewport, pts []stroke.Point, radius float64) {
	if len(pts) == 1 {
		stampDisc(cov, vp.ToScreen(toGeom(pts[0])), pressureRadius(radius, pts[0]))
		return
	}
	for i := 1; i < len(pts); i++ {
		a := vp.ToScreen(toGeom(pts[i-1]))
		b := vp.ToScreen(toGeom(pts[i]))
		stampSegment(cov, a, b, pressureRadius(radius, pts[i-1]), pressureRadius(radius, pts[i]))
	}
}

// stampSegment walks from a to b stamping discs, interpolating the radius
// between the endpoints.
func stampSegment(cov *coverage, a, b geom.Point, ra, rb float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		stampDisc(cov, geom.Point{X: a.X + dx*t, Y: a.Y + dy*t}, ra+(rb-ra)*t)
	}
}

func stampDisc(cov *coverage, center geom.Point, radius float64) {
	r2 := radius * radius
	minX, maxX := int(math.Floor(center.X-radius)), int(math.Ceil(center.X+radius))
	minY, maxY := int(math.Floor(center.Y-radius)), int(math.Ceil(center.Y+radius))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - center.X
			dy := float64(y) + 0.5 - center.Y
			if dx*dx+dy*dy <= r2 {
				cov.set(x, y)
			}
		}
	}
}

// paintRectangle covers the axis-aligned rectangle spanned by any two
// opposite corners; width and height may be negative in logical space.
func paintRectangle(cov *coverage, vp geom.Viewport, s stroke.Stroke, radius float64) {
	a := vp.ToScreen(toGeom(s.Anchor()))
	b := vp.ToScreen(toGeom(s.End()))
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)

	if s.Filled {
		for y := int(minY); y <= int(maxY); y++ {
			for x := int(minX); x <= int(maxX); x++ {
				cov.set(x, y)
			}
		}
		return
	}

	corners := []geom.Point{
		{X: minX, Y: minY}, {X: maxX, Y: minY},
		{X: maxX, Y: maxY}, {X: minX, Y: maxY},
	}
	for i := 0; i < 4; i++ {
		stampSegment(cov, corners[i], corners[(i+1)%4], radius, radius)
	}
}

// paintCircle is centered on the anchor with radius equal to the distance to
// the latest point.
func paintCircle(cov *coverage, vp geom.Viewport, s stroke.Stroke, strokeRadius float64) {
	center := vp.ToScreen(toGeom(s.Anchor()))
	end := vp.ToScreen(toGeom(s.End()))
	r := math.Hypot(end.X-center.X, end.Y-center.Y)

	if s.Filled {
		stampDisc(cov, center, r)
		return
	}

	steps := int(math.Max(24, 2*math.Pi*r))
	prev := geom.Point{X: center.X + r, Y: center.Y}
	for i := 1; i <= steps; i++ {
		t := 2 * math.Pi * float64(i) / float64(steps)
		next := geom.Point{X: center.X + r*math.Cos(t), Y: center.Y + r*math.Sin(t)}
		stampSegment(cov, prev, next, strokeRadius, strokeRadius)
		prev = next
	}
}
