package ui

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"inknote/internal/board"
	"inknote/internal/capture"
	"inknote/internal/geom"
	"inknote/internal/render"
)

// BoardWidget displays one page and feeds pointer, drag, and wheel events to
// the input engine as commands. All drawing happens in a single raster image
// regenerated from the engine's working set on every refresh.
type BoardWidget struct {
	widget.BaseWidget
	engine *board.Engine
	raster *fynecanvas.Raster

	// mu guards lastOutput and the capture state: event handlers and the
	// raster draw callback run on different goroutines.
	mu         sync.Mutex
	lastOutput *image.RGBA

	// Capture (rubber-band) state. While armed, the next drag selects a
	// screen region instead of drawing.
	captureMode bool
	selecting   bool
	selStart    fyne.Position
	selEnd      fyne.Position

	// OnCapture receives the selected region as a PNG data URI.
	OnCapture func(dataURI string)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

// The desktop driver reports a single mouse, so every event carries the same
// pointer id; touch drivers would hand out one id per finger.
const mousePointer = 0

var selectionInk = color.NRGBA{R: 0, G: 120, B: 215, A: 255}

func NewBoardWidget(engine *board.Engine) *BoardWidget {
	b := &BoardWidget{engine: engine}
	b.raster = fynecanvas.NewRaster(b.draw)
	b.raster.SetMinSize(fyne.NewSize(400, 300))
	b.ExtendBaseWidget(b)
	return b
}

// Engine returns the input engine driving this widget.
func (b *BoardWidget) Engine() *board.Engine { return b.engine }

// Dispatch routes a command to the engine and repaints.
func (b *BoardWidget) Dispatch(cmd board.Command) {
	b.engine.Handle(cmd)
	b.Refresh()
}

// CenterAnchor is the zoom anchor used by toolbar zoom controls.
func (b *BoardWidget) CenterAnchor() geom.Point {
	size := b.Size()
	return geom.Point{X: float64(size.Width) / 2, Y: float64(size.Height) / 2}
}

// ArmCapture puts the widget in capture mode: the next drag selects a region
// and delivers it to OnCapture as a PNG data URI.
func (b *BoardWidget) ArmCapture() {
	b.mu.Lock()
	b.captureMode = true
	b.selecting = false
	b.mu.Unlock()
}

func (b *BoardWidget) captureArmed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.captureMode
}

// Snapshot encodes the whole last rendered frame as a PNG data URI.
func (b *BoardWidget) Snapshot() string {
	b.mu.Lock()
	frame := b.lastOutput
	b.mu.Unlock()
	if frame == nil {
		return capture.Prefix
	}
	return capture.Snapshot(frame, frame.Bounds())
}

func (b *BoardWidget) draw(w, h int) image.Image {
	out := render.Render(w, h, b.engine.Viewport(), b.engine.Paths(), b.engine.Current())

	b.mu.Lock()
	b.lastOutput = out
	selecting, start, end := b.selecting, b.selStart, b.selEnd
	b.mu.Unlock()

	if selecting {
		drawSelectionRect(out, start, end)
	}
	return out
}

func (b *BoardWidget) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary || b.captureArmed() {
		return
	}
	b.Dispatch(board.PointerDown{
		Pointer: mousePointer,
		Pos:     toGeomPos(ev.Position),
	})
}

func (b *BoardWidget) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary || b.captureArmed() {
		return
	}
	b.Dispatch(board.PointerUp{Pointer: mousePointer})
}

// MouseMoved is intentionally inert: Dragged already delivers every motion
// sample while a button is held, and hover moves extend nothing.
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

// MouseOut commits the in-progress stroke at its last position. Leaving the
// canvas never discards ink.
func (b *BoardWidget) MouseOut() {
	b.Dispatch(board.PointerLeave{Pointer: mousePointer})
}

func (b *BoardWidget) Dragged(ev *fyne.DragEvent) {
	b.mu.Lock()
	if b.captureMode {
		if !b.selecting {
			b.selecting = true
			b.selStart = ev.Position
		}
		b.selEnd = ev.Position
		b.mu.Unlock()
		b.Refresh()
		return
	}
	b.mu.Unlock()
	b.Dispatch(board.PointerMove{
		Pointer: mousePointer,
		Pos:     toGeomPos(ev.Position),
		DX:      float64(ev.Dragged.DX),
		DY:      float64(ev.Dragged.DY),
		Held:    true,
	})
}

func (b *BoardWidget) DragEnd() {
	if b.captureArmed() {
		b.finishCapture()
		return
	}
	b.Dispatch(board.PointerUp{Pointer: mousePointer})
}

func (b *BoardWidget) finishCapture() {
	b.mu.Lock()
	b.captureMode = false
	selected := b.selecting
	b.selecting = false
	rect := normalizedRect(b.selStart, b.selEnd)
	frame := b.lastOutput
	b.mu.Unlock()

	if !selected {
		return
	}
	if b.OnCapture != nil && frame != nil {
		b.OnCapture(capture.Snapshot(frame, rect))
	}
	b.Refresh()
}

func (b *BoardWidget) Scrolled(ev *fyne.ScrollEvent) {
	b.Dispatch(board.Wheel{
		Pos: toGeomPos(ev.Position),
		DY:  float64(ev.Scrolled.DY),
	})
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.raster)
}

func toGeomPos(p fyne.Position) geom.Point {
	return geom.Point{X: float64(p.X), Y: float64(p.Y)}
}

func normalizedRect(a, b fyne.Position) image.Rectangle {
	x1, y1 := int(a.X), int(a.Y)
	x2, y2 := int(b.X), int(b.Y)
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return image.Rect(x1, y1, x2, y2)
}

// drawSelectionRect outlines the rubber-band region in the accent color.
func drawSelectionRect(img *image.RGBA, a, b fyne.Position) {
	r := normalizedRect(a, b).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, selectionInk)
		img.Set(x, r.Max.Y-1, selectionInk)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, selectionInk)
		img.Set(r.Max.X-1, y, selectionInk)
	}
}
