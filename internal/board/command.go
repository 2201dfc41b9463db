package board

import (
	"inknote/internal/geom"
	"inknote/internal/stroke"
)

// Command is one unit of pointer, wheel, or UI input. The UI layer translates
// raw events into commands; Engine.Handle owns the whole transition table, so
// the engine stays independent of any event-binding mechanism.
type Command interface {
	isCommand()
}

// PointerDown begins a stroke (tool permitting). Pos is in screen pixels
// relative to the canvas origin.
type PointerDown struct {
	Pointer int
	Pos     geom.Point
	// Pressure in [0,1]; zero when the device reports none.
	Pressure float64
}

// PointerMove extends the in-progress stroke or, with the pan tool and the
// primary button held, translates the viewport by the raw screen delta.
type PointerMove struct {
	Pointer  int
	Pos      geom.Point
	DX, DY   float64
	Held     bool
	Pressure float64
}

// PointerUp finalizes and commits the in-progress stroke.
type PointerUp struct {
	Pointer int
}

// PointerLeave finalizes exactly like PointerUp: leaving the canvas commits
// the stroke at its last known position rather than cancelling it.
type PointerLeave struct {
	Pointer int
}

// Wheel zooms at the pointer position; DY > 0 is scroll away from the user
// (zoom in).
type Wheel struct {
	Pos geom.Point
	DY  float64
}

// Undo removes the most recent committed stroke. Never touches the
// in-progress stroke.
type Undo struct{}

// Clear empties the committed log. The host confirms with the user before
// dispatching this.
type Clear struct{}

// SetTool switches the active tool.
type SetTool struct {
	Tool stroke.Tool
}

// SetColor changes the chosen stroke color.
type SetColor struct {
	Color stroke.Color
}

// SetWidth changes the configured pen/shape width.
type SetWidth struct {
	Width float64
}

// ZoomStep applies the fixed +/- button increment, anchored at the canvas
// center.
type ZoomStep struct {
	Delta  float64
	Anchor geom.Point
}

// SetZoom applies an absolute scale (slider), anchored at the canvas center.
// Out-of-range values clamp silently.
type SetZoom struct {
	Scale  float64
	Anchor geom.Point
}

func (PointerDown) isCommand()  {}
func (PointerMove) isCommand()  {}
func (PointerUp) isCommand()    {}
func (PointerLeave) isCommand() {}
func (Wheel) isCommand()        {}
func (Undo) isCommand()         {}
func (Clear) isCommand()        {}
func (SetTool) isCommand()      {}
func (SetColor) isCommand()     {}
func (SetWidth) isCommand()     {}
func (ZoomStep) isCommand()     {}
func (SetZoom) isCommand()      {}
