package ui

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"inknote/internal/board"
	"inknote/internal/geom"
	"inknote/internal/share"
	"inknote/internal/stroke"
)

// viewerState is the working set a share viewer renders: strokes arrive only
// from the host, the local engine just navigates them.
type viewerState struct {
	mu       sync.Mutex
	strokes  []stroke.Stroke
	viewport geom.Viewport
}

func newViewerState() *viewerState {
	return &viewerState{viewport: geom.DefaultViewport()}
}

// engine builds the read-only engine backing a viewer window. Drawing is
// disabled, so the pan tool is preselected: pan and zoom stay available.
func (v *viewerState) engine() *board.Engine {
	e := board.NewEngine()
	e.Paths = func() []stroke.Stroke {
		v.mu.Lock()
		defer v.mu.Unlock()
		return v.strokes
	}
	e.SetPaths = func(paths []stroke.Stroke) {
		v.mu.Lock()
		v.strokes = paths
		v.mu.Unlock()
	}
	e.Viewport = func() geom.Viewport {
		v.mu.Lock()
		defer v.mu.Unlock()
		return v.viewport
	}
	e.SetViewport = func(vp geom.Viewport) {
		v.mu.Lock()
		v.viewport = vp
		v.mu.Unlock()
	}
	e.ReadOnly = func() bool { return true }
	e.Handle(board.SetTool{Tool: stroke.ToolPan})
	return e
}

func (v *viewerState) replace(strokes []stroke.Stroke) {
	v.mu.Lock()
	v.strokes = strokes
	v.mu.Unlock()
}

func (v *viewerState) append(s stroke.Stroke) {
	v.mu.Lock()
	v.strokes = stroke.Append(v.strokes, s)
	v.mu.Unlock()
}

// RunViewer follows a shared page read-only. The local engine still handles
// pan and zoom; drawing is disabled end to end.
func RunViewer(link string) error {
	myApp := app.New()
	win := myApp.NewWindow("Inknote Viewer")
	win.Resize(fyne.NewSize(1000, 700))

	state := newViewerState()
	engine := state.engine()

	boardWidget := NewBoardWidget(engine)
	engine.OnChange = boardWidget.Refresh

	status := widget.NewLabel("Connecting to " + link + "...")

	viewer := &share.Viewer{
		OnSnapshot: func(title string, snap []stroke.Stroke) {
			state.replace(snap)
			fyne.Do(func() {
				status.SetText("Following: " + title)
				boardWidget.Refresh()
			})
		},
		OnStroke: func(s stroke.Stroke) {
			state.append(s)
			fyne.Do(boardWidget.Refresh)
		},
		OnClear: func() {
			state.replace(stroke.Clear())
			fyne.Do(boardWidget.Refresh)
		},
		OnDisconnect: func(err error) {
			fyne.Do(func() {
				status.SetText(fmt.Sprintf("Disconnected: %v", err))
			})
		},
	}
	if err := viewer.Connect(link); err != nil {
		return err
	}
	defer viewer.Close()

	win.SetContent(container.NewBorder(nil, status, nil, nil, boardWidget))
	win.ShowAndRun()
	return nil
}
