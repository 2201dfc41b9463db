package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"inknote/internal/board"
	"inknote/internal/geom"
	"inknote/internal/stroke"
)

// ToolbarActions are host hooks for buttons that reach outside the canvas.
type ToolbarActions struct {
	OnShare   func()
	OnExport  func()
	OnCapture func()
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// --- The Main Toolbar ---
func NewToolbar(win fyne.Window, b *BoardWidget, actions ToolbarActions) fyne.CanvasObject {
	setTool := func(t stroke.Tool) func() {
		return func() { b.Dispatch(board.SetTool{Tool: t}) }
	}

	tools := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), setTool(stroke.ToolPen)),
		widget.NewToolbarAction(theme.ContentClearIcon(), setTool(stroke.ToolEraser)),
		widget.NewToolbarAction(theme.ColorPaletteIcon(), setTool(stroke.ToolHighlighter)),
		widget.NewToolbarAction(theme.CheckButtonIcon(), setTool(stroke.ToolRectangle)),
		widget.NewToolbarAction(theme.RadioButtonIcon(), setTool(stroke.ToolCircle)),
		widget.NewToolbarAction(theme.ContentRemoveIcon(), setTool(stroke.ToolLine)),
		widget.NewToolbarAction(theme.MoveUpIcon(), setTool(stroke.ToolPan)),
	)

	// --- Color Palette ---
	onColorTapped := func(c color.Color) {
		b.Dispatch(board.SetColor{Color: stroke.FromColor(c)})
	}
	colorBox := container.NewHBox(
		newColorSwatch(color.Black, onColorTapped),
		newColorSwatch(color.NRGBA{R: 229, G: 57, B: 53, A: 255}, onColorTapped),
		newColorSwatch(color.NRGBA{R: 30, G: 136, B: 229, A: 255}, onColorTapped),
		newColorSwatch(color.NRGBA{R: 67, G: 160, B: 71, A: 255}, onColorTapped),
		newColorSwatch(color.NRGBA{R: 253, G: 216, B: 53, A: 255}, onColorTapped),
	)

	// --- Stroke Width Slider ---
	widthSlider := widget.NewSlider(1.0, 50.0)
	widthSlider.SetValue(3.0)
	widthSlider.OnChanged = func(val float64) {
		b.Dispatch(board.SetWidth{Width: val})
	}
	widthBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), widthSlider)

	// --- Zoom controls ---
	zoomLabel := widget.NewLabel("100%")
	zoomSlider := widget.NewSlider(geom.MinScale, geom.MaxScale)
	zoomSlider.Step = 0.05
	zoomSlider.SetValue(1.0)
	syncZoom := func() {
		scale := b.Engine().Viewport().Scale
		zoomSlider.SetValue(scale)
		zoomLabel.SetText(fmt.Sprintf("%.0f%%", scale*100))
	}
	zoomSlider.OnChanged = func(val float64) {
		b.Dispatch(board.SetZoom{Scale: val, Anchor: b.CenterAnchor()})
		zoomLabel.SetText(fmt.Sprintf("%.0f%%", b.Engine().Viewport().Scale*100))
	}
	zoomOut := widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() {
		b.Dispatch(board.ZoomStep{Delta: -geom.ButtonStep, Anchor: b.CenterAnchor()})
		syncZoom()
	})
	zoomIn := widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() {
		b.Dispatch(board.ZoomStep{Delta: geom.ButtonStep, Anchor: b.CenterAnchor()})
		syncZoom()
	})
	zoomBox := container.NewHBox(zoomOut,
		container.New(layout.NewGridWrapLayout(fyne.NewSize(100, 35)), zoomSlider),
		zoomIn, zoomLabel)

	// --- History ---
	undoBtn := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		b.Dispatch(board.Undo{})
	})
	clearBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		dialog.ShowConfirm("Clear page", "Remove every stroke on this page?", func(ok bool) {
			if ok {
				b.Dispatch(board.Clear{})
			}
		}, win)
	})

	// --- Host actions ---
	captureBtn := widget.NewButtonWithIcon("", theme.MediaPhotoIcon(), func() {
		b.ArmCapture()
		if actions.OnCapture != nil {
			actions.OnCapture()
		}
	})
	shareBtn := widget.NewButtonWithIcon("", theme.MailSendIcon(), func() {
		if actions.OnShare != nil {
			actions.OnShare()
		}
	})
	exportBtn := widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), func() {
		if actions.OnExport != nil {
			actions.OnExport()
		}
	})

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tools,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		widthBox,
		widget.NewSeparator(),
		zoomBox,
		widget.NewSeparator(),
		undoBtn,
		clearBtn,
		layout.NewSpacer(),
		captureBtn,
		shareBtn,
		exportBtn,
	)
}
