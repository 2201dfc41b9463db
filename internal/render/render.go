// Package render rasterizes a page: background grid, committed strokes, and
// the in-progress stroke, under the current viewport. Rendering is a pure
// function of its inputs; the caller invokes it whenever any input changes.
package render

import (
	"image"
	"image/color"
	"math"

	"inknote/internal/geom"
	"inknote/internal/stroke"
)

// Paper is the surface color the canvas is cleared to; the eraser's
// destructive composite restores it.
var Paper = color.NRGBA{R: 245, G: 246, B: 248, A: 255}

const (
	// GridBase is the grid cell size in logical units.
	GridBase = 40.0
	// gridFadeBelow fades the grid when the on-screen cell drops under
	// this many pixels.
	gridFadeBelow = 10.0
)

var (
	gridInk   = color.NRGBA{R: 203, G: 208, B: 216, A: 255}
	gridAlpha = 0.55
	gridFaded = 0.18
)

// Render paints a w×h frame. Committed strokes paint in log order, the
// in-progress stroke last, so later strokes always draw over earlier ones.
func Render(w, h int, vp geom.Viewport, committed []stroke.Stroke, current *stroke.Stroke) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return img
	}

	clearToPaper(img)
	drawGrid(img, vp)

	for i := range committed {
		paintStroke(img, vp, committed[i])
	}
	if current != nil {
		paintStroke(img, vp, *current)
	}
	return img
}

func clearToPaper(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			row[i+0] = Paper.R
			row[i+1] = Paper.G
			row[i+2] = Paper.B
			row[i+3] = 255
		}
	}
}

// drawGrid paints the background grid in screen space: the cell size follows
// the zoom and the line offset follows the pan, so the grid appears attached
// to the drawing plane.
func drawGrid(img *image.RGBA, vp geom.Viewport) {
	cell := GridBase * vp.Scale
	if cell < 2 {
		return
	}
	alpha := gridAlpha
	if cell < gridFadeBelow {
		alpha = gridFaded
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	for x := positiveMod(vp.X, cell); x < float64(w); x += cell {
		xi := int(x)
		for y := 0; y < h; y++ {
			blendPixel(img, xi, y, gridInk, alpha)
		}
	}
	for y := positiveMod(vp.Y, cell); y < float64(h); y += cell {
		yi := int(y)
		for x := 0; x < w; x++ {
			blendPixel(img, x, yi, gridInk, alpha)
		}
	}
}

func positiveMod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}

// blendPixel draws col over the pixel at the given opacity.
func blendPixel(img *image.RGBA, x, y int, col color.NRGBA, opacity float64) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	a := float64(col.A) / 255 * opacity
	if a <= 0 {
		return
	}
	o := img.PixOffset(x, y)
	img.Pix[o+0] = uint8(float64(col.R)*a + float64(img.Pix[o+0])*(1-a))
	img.Pix[o+1] = uint8(float64(col.G)*a + float64(img.Pix[o+1])*(1-a))
	img.Pix[o+2] = uint8(float64(col.B)*a + float64(img.Pix[o+2])*(1-a))
	img.Pix[o+3] = 255
}
