package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestRoundTrip(t *testing.T) {
	viewports := []Viewport{
		{X: 0, Y: 0, Scale: 1},
		{X: 100, Y: 50, Scale: 2},
		{X: -340.5, Y: 17.25, Scale: 0.1},
		{X: 12, Y: -9000, Scale: 5},
		{X: 3.14159, Y: -2.71828, Scale: 0.731},
	}
	points := []Point{
		{0, 0}, {1, 1}, {-500, 250}, {1e6, -1e6}, {0.001, -0.001},
	}

	for _, v := range viewports {
		for _, p := range points {
			got := v.ToLogical(v.ToScreen(p))
			if math.Abs(got.X-p.X) > 1e-6 || math.Abs(got.Y-p.Y) > 1e-6 {
				t.Errorf("round trip of %+v under %+v gave %+v", p, v, got)
			}
		}
	}
}

func TestZoomAtKeepsAnchorFixed(t *testing.T) {
	cases := []struct {
		name   string
		v      Viewport
		anchor Point
		scale  float64
	}{
		{"identity zoom in", Viewport{0, 0, 1}, Point{400, 300}, 1.1},
		{"offset zoom out", Viewport{100, 50, 2}, Point{100, 50}, 1.8},
		{"clamped high", Viewport{-20, 30, 4.9}, Point{10, 10}, 7.0},
		{"clamped low", Viewport{0, 0, 0.12}, Point{640, 480}, 0.01},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.v.ToLogical(tc.anchor)
			after := tc.v.ZoomAt(tc.anchor, tc.scale).ToLogical(tc.anchor)
			if math.Abs(before.X-after.X) > 1e-6 || math.Abs(before.Y-after.Y) > 1e-6 {
				t.Errorf("anchor drifted: before %+v, after %+v", before, after)
			}
		})
	}
}

func TestZoomAtScenario(t *testing.T) {
	// Wheel zoom at screen (100,50) over viewport {100,50,2}: the logical
	// origin sits under the anchor and must stay there at scale 2.2.
	v := Viewport{X: 100, Y: 50, Scale: 2}
	anchor := Point{X: 100, Y: 50}

	next := v.ZoomAt(anchor, v.Scale*(1+WheelStep))
	if !almostEqual(next.Scale, 2.2) {
		t.Fatalf("scale = %v, want 2.2", next.Scale)
	}
	under := next.ToLogical(anchor)
	if !almostEqual(under.X, 0) || !almostEqual(under.Y, 0) {
		t.Errorf("logical point under anchor = %+v, want origin", under)
	}
}

func TestClampScale(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0.05, 0.1},
		{0.1, 0.1},
		{1, 1},
		{5, 5},
		{5.25, 5},
		{-3, 0.1},
		{1e9, 5},
	}
	for _, tc := range cases {
		if got := ClampScale(tc.in); got != tc.want {
			t.Errorf("ClampScale(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestZoomAtAlwaysClamped(t *testing.T) {
	v := DefaultViewport()
	// Repeated zooming in one direction must saturate, never escape range.
	for i := 0; i < 100; i++ {
		v = v.ZoomAt(Point{200, 200}, v.Scale*(1+WheelStep))
	}
	if v.Scale != MaxScale {
		t.Errorf("scale after zooming in = %v, want %v", v.Scale, MaxScale)
	}
	for i := 0; i < 200; i++ {
		v = v.ZoomAt(Point{200, 200}, v.Scale*(1-WheelStep))
	}
	if v.Scale != MinScale {
		t.Errorf("scale after zooming out = %v, want %v", v.Scale, MinScale)
	}
}

func TestPanIsScaleIndependent(t *testing.T) {
	for _, scale := range []float64{0.1, 1, 2.5, 5} {
		v := Viewport{X: 10, Y: 20, Scale: scale}
		v = v.Pan(7, -3)
		v = v.Pan(1.5, 1.5)
		if !almostEqual(v.X, 18.5) || !almostEqual(v.Y, 18.5) {
			t.Errorf("scale %v: pan gave offset (%v,%v), want (18.5,18.5)", scale, v.X, v.Y)
		}
	}
}
