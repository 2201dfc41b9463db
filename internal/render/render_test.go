package render

import (
	"image/color"
	"testing"

	"inknote/internal/geom"
	"inknote/internal/stroke"
)

var (
	black = stroke.Color{A: 255}
	red   = stroke.Color{R: 255, A: 255}
	blue  = stroke.Color{B: 255, A: 255}
)

func pen(c stroke.Color, width float64, pts ...stroke.Point) stroke.Stroke {
	return stroke.Stroke{ID: "s", Tool: stroke.ToolPen, Color: c, Width: width, Points: pts}
}

func at(t *testing.T, img interface {
	At(x, y int) color.Color
}, x, y int) color.NRGBA {
	t.Helper()
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestRenderZeroSizeSurface(t *testing.T) {
	img := Render(0, 0, geom.DefaultViewport(), nil, nil)
	if !img.Bounds().Empty() {
		t.Errorf("zero-size render has bounds %v", img.Bounds())
	}
}

func TestEmptyLogIsPaperAndGrid(t *testing.T) {
	img := Render(200, 200, geom.DefaultViewport(), nil, nil)

	// (90,90) is off the 40px grid lattice.
	if got := at(t, img, 90, 90); got != Paper {
		t.Errorf("paper pixel = %+v, want %+v", got, Paper)
	}
	// (80,25) lies on a vertical grid line.
	if got := at(t, img, 80, 25); got == Paper {
		t.Errorf("grid line pixel unchanged from paper")
	}
}

func TestGridPansWithViewport(t *testing.T) {
	img := Render(200, 200, geom.Viewport{X: 5, Y: 0, Scale: 1}, nil, nil)
	if got := at(t, img, 5, 25); got == Paper {
		t.Errorf("grid line should sit at x=5 after panning")
	}
	if got := at(t, img, 7, 25); got != Paper {
		t.Errorf("pixel beside shifted grid line = %+v, want paper", got)
	}
}

func TestGridFadesWhenDense(t *testing.T) {
	normal := Render(200, 200, geom.Viewport{Scale: 1}, nil, nil)
	dense := Render(200, 200, geom.Viewport{Scale: 0.2}, nil, nil) // cell = 8px < threshold

	n := at(t, normal, 80, 25) // on a line at scale 1
	d := at(t, dense, 80, 25)  // 80 is also a multiple of 8
	// Faded lines sit closer to the paper color.
	if int(Paper.R)-int(d.R) >= int(Paper.R)-int(n.R) {
		t.Errorf("dense grid (%+v) not fainter than normal grid (%+v)", d, n)
	}
}

func TestPenStrokePaintsOpaque(t *testing.T) {
	s := pen(black, 4, stroke.Point{X: 50, Y: 50}, stroke.Point{X: 150, Y: 50})
	img := Render(200, 200, geom.DefaultViewport(), []stroke.Stroke{s}, nil)

	if got := at(t, img, 100, 50); got != (color.NRGBA{A: 255}) {
		t.Errorf("stroke pixel = %+v, want opaque black", got)
	}
	if got := at(t, img, 100, 90); got != Paper {
		t.Errorf("pixel away from stroke = %+v, want paper", got)
	}
}

func TestEraserRestoresPaper(t *testing.T) {
	ink := pen(black, 6, stroke.Point{X: 100, Y: 100}, stroke.Point{X: 110, Y: 100})
	wipe := stroke.Stroke{
		ID: "e", Tool: stroke.ToolEraser, Width: stroke.EraserWidth,
		Color:  stroke.Color{R: 255, G: 255, B: 255, A: 255},
		Points: []stroke.Point{{X: 95, Y: 100}, {X: 115, Y: 100}},
	}
	img := Render(200, 200, geom.DefaultViewport(), []stroke.Stroke{ink, wipe}, nil)

	if got := at(t, img, 105, 100); got != Paper {
		t.Errorf("erased pixel = %+v, want paper %+v", got, Paper)
	}
}

func TestLaterStrokesDrawOverEarlier(t *testing.T) {
	a := pen(red, 8, stroke.Point{X: 100, Y: 100}, stroke.Point{X: 120, Y: 100})
	b := pen(blue, 8, stroke.Point{X: 110, Y: 90}, stroke.Point{X: 110, Y: 110})
	img := Render(200, 200, geom.DefaultViewport(), []stroke.Stroke{a, b}, nil)

	if got := at(t, img, 110, 100); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("overlap pixel = %+v, want the later (blue) stroke", got)
	}
}

func TestInProgressStrokeRendersOnTop(t *testing.T) {
	committed := pen(red, 8, stroke.Point{X: 100, Y: 100}, stroke.Point{X: 120, Y: 100})
	current := pen(blue, 8, stroke.Point{X: 110, Y: 90}, stroke.Point{X: 110, Y: 110})
	img := Render(200, 200, geom.DefaultViewport(), []stroke.Stroke{committed}, &current)

	if got := at(t, img, 110, 100); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("in-progress stroke not on top: %+v", got)
	}
}

func TestHighlighterBlendsWithPaper(t *testing.T) {
	hl := stroke.Stroke{
		ID: "h", Tool: stroke.ToolHighlighter, Color: stroke.Color{R: 255, G: 235, A: 255},
		Width:  stroke.HighlighterWidth,
		Points: []stroke.Point{{X: 90, Y: 90}, {X: 110, Y: 90}},
	}
	img := Render(200, 200, geom.DefaultViewport(), []stroke.Stroke{hl}, nil)

	got := at(t, img, 100, 90)
	if got == Paper {
		t.Fatalf("highlighter left no mark")
	}
	if got.A != 255 {
		t.Errorf("surface must stay opaque, got alpha %d", got.A)
	}
	// At reduced opacity some paper must show through the ink.
	if got.B < 100 {
		t.Errorf("highlighter looks fully opaque: %+v", got)
	}
}

func TestRectangleFromAnyTwoOppositeCorners(t *testing.T) {
	// Anchor below-right of the end point: negative width and height.
	rect := stroke.Stroke{
		ID: "r", Tool: stroke.ToolRectangle, Color: black, Width: 2,
		Points: []stroke.Point{{X: 120, Y: 81}, {X: 60, Y: 41}},
	}
	img := Render(200, 200, geom.DefaultViewport(), []stroke.Stroke{rect}, nil)

	if got := at(t, img, 90, 41); got != (color.NRGBA{A: 255}) {
		t.Errorf("top edge missing: %+v", got)
	}
	if got := at(t, img, 60, 60); got != (color.NRGBA{A: 255}) {
		t.Errorf("left edge missing: %+v", got)
	}
	if got := at(t, img, 90, 61); got != Paper {
		t.Errorf("unfilled interior painted: %+v", got)
	}
}

func TestCircleCenteredOnAnchor(t *testing.T) {
	circ := stroke.Stroke{
		ID: "c", Tool: stroke.ToolCircle, Color: black, Width: 3,
		Points: []stroke.Point{{X: 100, Y: 101}, {X: 140, Y: 101}}, // radius 40
	}
	img := Render(220, 220, geom.DefaultViewport(), []stroke.Stroke{circ}, nil)

	if got := at(t, img, 60, 101); got != (color.NRGBA{A: 255}) {
		t.Errorf("ring pixel opposite the drag point missing: %+v", got)
	}
	if got := at(t, img, 100, 101); got != Paper {
		t.Errorf("circle center painted: %+v", got)
	}
}

func TestStrokesFollowViewportTransform(t *testing.T) {
	s := pen(black, 4, stroke.Point{X: 0, Y: 0}, stroke.Point{X: 10, Y: 0})
	vp := geom.Viewport{X: 100, Y: 50, Scale: 2}
	img := Render(200, 200, vp, []stroke.Stroke{s}, nil)

	// Logical (5,0) lands at screen (110,50).
	if got := at(t, img, 110, 50); got != (color.NRGBA{A: 255}) {
		t.Errorf("transformed stroke pixel = %+v, want black", got)
	}
}
