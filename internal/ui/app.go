package ui

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"inknote/internal/board"
	"inknote/internal/chat"
	"inknote/internal/config"
	"inknote/internal/export"
	"inknote/internal/geom"
	"inknote/internal/share"
	"inknote/internal/store"
	"inknote/internal/stroke"
)

// appState ties the engine to the currently open note. The engine reads and
// writes through the accessors below, so switching notes swaps the working
// set in place.
type appState struct {
	store *store.Store
	cfg   *config.Config

	mu       sync.Mutex
	noteID   string
	title    string
	strokes  []stroke.Stroke
	viewport geom.Viewport
	saveTmr  *time.Timer

	host    *share.Host
	lastLen int
}

// RunApp opens the catalog and runs the main window until closed.
func RunApp(cfg *config.Config) error {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	state := &appState{store: st, cfg: cfg, viewport: geom.DefaultViewport()}

	myApp := app.New()
	win := myApp.NewWindow("Inknote")
	win.Resize(fyne.NewSize(1200, 800))

	engine := board.NewEngine()
	engine.Paths = func() []stroke.Stroke {
		state.mu.Lock()
		defer state.mu.Unlock()
		return state.strokes
	}
	engine.SetPaths = func(paths []stroke.Stroke) {
		state.mu.Lock()
		state.strokes = paths
		state.mu.Unlock()
		state.scheduleSave()
	}
	engine.Viewport = func() geom.Viewport {
		state.mu.Lock()
		defer state.mu.Unlock()
		return state.viewport
	}
	engine.SetViewport = func(vp geom.Viewport) {
		state.mu.Lock()
		state.viewport = vp
		state.mu.Unlock()
		state.scheduleSave()
	}
	engine.ReadOnly = func() bool {
		state.mu.Lock()
		defer state.mu.Unlock()
		return state.noteID == ""
	}
	engine.OnCommit = func(s stroke.Stroke) {
		if state.host != nil {
			state.host.BroadcastStroke(s)
		}
	}

	boardWidget := NewBoardWidget(engine)
	engine.OnChange = func() {
		boardWidget.Refresh()
		state.afterChange()
	}

	var client chat.Client
	if cfg.APIKey != "" {
		client = chat.NewAnthropicClient(cfg.APIKey, cfg.Model)
	}
	chatPanel := NewChatPanel(client)
	boardWidget.OnCapture = chatPanel.AttachCapture

	notesPanel := NewNotesPanel(win, st)
	notesPanel.OnOpen = func(noteID string) {
		if err := state.openNote(noteID); err != nil {
			dialog.ShowError(err, win)
			return
		}
		boardWidget.Refresh()
	}

	toolbar := NewToolbar(win, boardWidget, ToolbarActions{
		OnShare:  func() { state.toggleShare(win) },
		OnExport: func() { state.exportPDF(win) },
	})

	right := container.NewHSplit(boardWidget, chatPanel.Content())
	right.SetOffset(0.72)
	split := container.NewHSplit(notesPanel.Content(), right)
	split.SetOffset(0.18)

	win.SetContent(container.NewBorder(toolbar, nil, nil, nil, split))
	win.SetCloseIntercept(func() {
		state.flush()
		if state.host != nil {
			state.host.Close()
		}
		win.Close()
	})
	win.ShowAndRun()
	return nil
}

// openNote flushes the current page and loads another.
func (a *appState) openNote(noteID string) error {
	a.flush()

	page, err := a.store.LoadPage(context.Background(), noteID)
	if err != nil {
		return fmt.Errorf("load note: %w", err)
	}
	note, err := a.store.Note(context.Background(), noteID)
	if err != nil {
		return fmt.Errorf("load note: %w", err)
	}

	a.mu.Lock()
	a.noteID = noteID
	a.title = note.Title
	a.strokes = page.Strokes
	a.viewport = page.Viewport
	a.lastLen = len(page.Strokes)
	a.mu.Unlock()

	if a.host != nil {
		a.host.BroadcastSnapshot()
	}
	return nil
}

// scheduleSave arms the autosave debounce; a burst of edits collapses into a
// single write after the quiet period.
func (a *appState) scheduleSave() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.noteID == "" {
		return
	}
	if a.saveTmr != nil {
		a.saveTmr.Stop()
	}
	a.saveTmr = time.AfterFunc(time.Duration(a.cfg.AutosaveMS)*time.Millisecond, a.save)
}

func (a *appState) save() {
	a.mu.Lock()
	noteID := a.noteID
	page := store.Page{Strokes: a.strokes, Viewport: a.viewport}
	a.mu.Unlock()
	if noteID == "" {
		return
	}
	if err := a.store.SavePage(context.Background(), noteID, page); err != nil {
		log.Printf("[autosave] save note %s: %v", noteID, err)
	}
}

// flush cancels any pending debounce and saves immediately.
func (a *appState) flush() {
	a.mu.Lock()
	if a.saveTmr != nil {
		a.saveTmr.Stop()
		a.saveTmr = nil
	}
	a.mu.Unlock()
	a.save()
}

// afterChange pushes undo/clear shrinkage to viewers; commits already travel
// through OnCommit.
func (a *appState) afterChange() {
	a.mu.Lock()
	n := len(a.strokes)
	shrank := n < a.lastLen
	a.lastLen = n
	host := a.host
	a.mu.Unlock()

	if shrank && host != nil {
		host.BroadcastSnapshot()
	}
}

func (a *appState) snapshot() (string, []stroke.Stroke) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.title, a.strokes
}

func (a *appState) toggleShare(win fyne.Window) {
	if a.host != nil {
		a.host.Close()
		a.host = nil
		dialog.ShowInformation("Share", "Sharing stopped.", win)
		return
	}

	host, err := share.StartHost(a.cfg.SharePort, a.snapshot)
	if err != nil {
		dialog.ShowError(fmt.Errorf("start share host: %w", err), win)
		return
	}
	a.host = host

	link := share.ShareLink(host.Port())
	entry := widget.NewEntry()
	entry.SetText(link)
	dialog.ShowCustom("Share", "Close",
		container.NewVBox(
			widget.NewLabel("Viewers can follow this page read-only at:"),
			entry,
		), win)
}

func (a *appState) exportPDF(win fyne.Window) {
	a.mu.Lock()
	noteID, title := a.noteID, a.title
	committed := a.strokes
	a.mu.Unlock()
	if noteID == "" {
		dialog.ShowInformation("Export", "Open a note first.", win)
		return
	}

	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()
		if err := export.Write(writer, title, committed); err != nil {
			dialog.ShowError(err, win)
		}
	}, win)
}
