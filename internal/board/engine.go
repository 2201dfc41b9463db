// Package board interprets pointer and wheel input into stroke-log and
// viewport mutations, one active tool at a time.
package board

import (
	"inknote/internal/geom"
	"inknote/internal/stroke"
)

// noPointer marks the idle state; any other value is the captured pointer id
// that owns the in-progress stroke until release.
const noPointer = -1

// Engine is the input state machine for one page. It never owns the
// committed log or the viewport: every read and write goes through the host
// accessors, so switching the active note swaps the whole working set with no
// migration step.
type Engine struct {
	// Host accessors, all required.
	Paths       func() []stroke.Stroke
	SetPaths    func([]stroke.Stroke)
	Viewport    func() geom.Viewport
	SetViewport func(geom.Viewport)

	// ReadOnly disables stroke creation; pan and zoom stay permitted.
	// Optional.
	ReadOnly func() bool

	// OnCommit is invoked with each stroke as it is committed. Optional.
	OnCommit func(stroke.Stroke)

	// OnChange signals that a repaint is due. Optional.
	OnChange func()

	tool    stroke.Tool
	color   stroke.Color
	width   float64
	current *stroke.Stroke
	pointer int
}

// NewEngine returns an engine with the pen selected, black ink, width 3.
func NewEngine() *Engine {
	return &Engine{
		tool:    stroke.ToolPen,
		color:   stroke.Color{A: 255},
		width:   3,
		pointer: noPointer,
	}
}

// Tool returns the active tool.
func (e *Engine) Tool() stroke.Tool { return e.tool }

// Color returns the chosen stroke color.
func (e *Engine) Color() stroke.Color { return e.color }

// Width returns the configured pen/shape width.
func (e *Engine) Width() float64 { return e.width }

// Current returns the in-progress stroke, or nil when idle. It is merged
// into the renderer's input for the current frame only and never persisted.
func (e *Engine) Current() *stroke.Stroke { return e.current }

// Drawing reports whether a stroke is in progress.
func (e *Engine) Drawing() bool { return e.current != nil }

func (e *Engine) readOnly() bool {
	return e.ReadOnly != nil && e.ReadOnly()
}

func (e *Engine) changed() {
	if e.OnChange != nil {
		e.OnChange()
	}
}

// Handle applies one command. All state transitions of the engine live here.
func (e *Engine) Handle(cmd Command) {
	switch c := cmd.(type) {
	case PointerDown:
		e.pointerDown(c)
	case PointerMove:
		e.pointerMove(c)
	case PointerUp:
		e.finish(c.Pointer)
	case PointerLeave:
		e.finish(c.Pointer)
	case Wheel:
		e.wheel(c)
	case Undo:
		e.SetPaths(stroke.Undo(e.Paths()))
		e.changed()
	case Clear:
		e.SetPaths(stroke.Clear())
		e.changed()
	case SetTool:
		e.tool = c.Tool
	case SetColor:
		e.color = c.Color
	case SetWidth:
		e.width = c.Width
	case ZoomStep:
		vp := e.Viewport()
		e.SetViewport(vp.ZoomAt(c.Anchor, vp.Scale+c.Delta))
		e.changed()
	case SetZoom:
		e.SetViewport(e.Viewport().ZoomAt(c.Anchor, c.Scale))
		e.changed()
	}
}

func (e *Engine) pointerDown(c PointerDown) {
	if e.tool == stroke.ToolPan || e.readOnly() {
		return
	}
	// A second simultaneous pointer never corrupts the in-progress stroke:
	// the first pointer keeps capture until release.
	if e.current != nil {
		return
	}

	first := e.logicalPoint(c.Pos, c.Pressure)
	col, width := e.color, e.width
	switch e.tool {
	case stroke.ToolEraser:
		col, width = stroke.Color{R: 255, G: 255, B: 255, A: 255}, stroke.EraserWidth
	case stroke.ToolHighlighter:
		width = stroke.HighlighterWidth
	}

	e.current = stroke.New(e.tool, col, width, first)
	e.pointer = c.Pointer
	e.changed()
}

func (e *Engine) pointerMove(c PointerMove) {
	if e.tool == stroke.ToolPan {
		// Pan moves 1:1 in screen pixels, independent of zoom.
		if c.Held {
			e.SetViewport(e.Viewport().Pan(c.DX, c.DY))
			e.changed()
		}
		return
	}
	if e.current == nil || c.Pointer != e.pointer {
		return
	}
	e.current.Extend(e.logicalPoint(c.Pos, c.Pressure))
	e.changed()
}

// finish releases the captured pointer and commits the in-progress stroke.
// No-op when idle or when another pointer reports.
func (e *Engine) finish(pointer int) {
	if e.current == nil || pointer != e.pointer {
		return
	}
	s := *e.current
	e.current = nil
	e.pointer = noPointer

	e.SetPaths(stroke.Append(e.Paths(), s))
	if e.OnCommit != nil {
		e.OnCommit(s)
	}
	e.changed()
}

func (e *Engine) wheel(c Wheel) {
	// Horizontal-only scrolls arrive with a zero vertical delta; the zoom
	// direction is the sign of DY, and sign zero means no zoom at all.
	if c.DY == 0 {
		return
	}
	vp := e.Viewport()
	factor := 1 + geom.WheelStep
	if c.DY < 0 {
		factor = 1 - geom.WheelStep
	}
	e.SetViewport(vp.ZoomAt(c.Pos, vp.Scale*factor))
	e.changed()
}

func (e *Engine) logicalPoint(pos geom.Point, pressure float64) stroke.Point {
	p := e.Viewport().ToLogical(pos)
	return stroke.Point{X: p.X, Y: p.Y, Pressure: pressure}
}
