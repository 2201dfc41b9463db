package ui

import (
	"context"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"inknote/internal/store"
)

// Tree ids carry their kind so one widget can hold both node types.
const (
	folderPrefix = "f:"
	notePrefix   = "n:"
)

// NotesPanel is the catalog sidebar: a folder/note tree backed by the store.
type NotesPanel struct {
	store *store.Store
	win   fyne.Window
	tree  *widget.Tree

	children map[string][]widget.TreeNodeID
	labels   map[widget.TreeNodeID]string
	selected widget.TreeNodeID

	// OnOpen fires when a note is selected.
	OnOpen func(noteID string)

	content fyne.CanvasObject
}

func NewNotesPanel(win fyne.Window, st *store.Store) *NotesPanel {
	p := &NotesPanel{
		store:    st,
		win:      win,
		children: map[string][]widget.TreeNodeID{},
		labels:   map[widget.TreeNodeID]string{},
	}

	p.tree = widget.NewTree(
		func(id widget.TreeNodeID) []widget.TreeNodeID {
			return p.children[string(id)]
		},
		func(id widget.TreeNodeID) bool {
			return id == "" || strings.HasPrefix(string(id), folderPrefix)
		},
		func(bool) fyne.CanvasObject {
			return widget.NewLabel("note")
		},
		func(id widget.TreeNodeID, _ bool, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(p.labels[id])
		},
	)
	p.tree.OnSelected = func(id widget.TreeNodeID) {
		p.selected = id
		if noteID, ok := strings.CutPrefix(string(id), notePrefix); ok && p.OnOpen != nil {
			p.OnOpen(noteID)
		}
	}

	buttons := container.NewHBox(
		widget.NewButtonWithIcon("", theme.FolderNewIcon(), p.newFolder),
		widget.NewButtonWithIcon("", theme.ContentAddIcon(), p.newNote),
		widget.NewButtonWithIcon("", theme.DeleteIcon(), p.deleteSelected),
	)
	p.content = container.NewBorder(buttons, nil, nil, nil, p.tree)

	p.Reload()
	return p
}

// Content returns the panel for embedding in layouts.
func (p *NotesPanel) Content() fyne.CanvasObject { return p.content }

// Reload rebuilds the tree from the store.
func (p *NotesPanel) Reload() {
	children := map[string][]widget.TreeNodeID{}
	labels := map[widget.TreeNodeID]string{}

	var walk func(parentID, nodeID string)
	walk = func(parentID, nodeID string) {
		folders, err := p.store.Folders(context.Background(), parentID)
		if err != nil {
			log.Printf("[catalog] list folders: %v", err)
			return
		}
		for _, f := range folders {
			id := widget.TreeNodeID(folderPrefix + f.ID)
			children[nodeID] = append(children[nodeID], id)
			labels[id] = f.Name
			walk(f.ID, string(id))
		}

		notes, err := p.store.Notes(context.Background(), parentID)
		if err != nil {
			log.Printf("[catalog] list notes: %v", err)
			return
		}
		for _, n := range notes {
			id := widget.TreeNodeID(notePrefix + n.ID)
			children[nodeID] = append(children[nodeID], id)
			labels[id] = n.Title
		}
	}
	walk("", "")

	p.children = children
	p.labels = labels
	p.tree.Refresh()
}

// selectedFolderID resolves where catalog additions land: the selected
// folder, or the selected note's folder, or the root.
func (p *NotesPanel) selectedFolderID() string {
	id := string(p.selected)
	if folderID, ok := strings.CutPrefix(id, folderPrefix); ok {
		return folderID
	}
	if noteID, ok := strings.CutPrefix(id, notePrefix); ok {
		if n, err := p.store.Note(context.Background(), noteID); err == nil {
			return n.FolderID
		}
	}
	return ""
}

func (p *NotesPanel) newFolder() {
	entry := widget.NewEntry()
	dialog.ShowForm("New folder", "Create", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", entry)},
		func(ok bool) {
			if !ok || entry.Text == "" {
				return
			}
			if _, err := p.store.CreateFolder(context.Background(), p.selectedFolderID(), entry.Text); err != nil {
				dialog.ShowError(err, p.win)
				return
			}
			p.Reload()
		}, p.win)
}

func (p *NotesPanel) newNote() {
	entry := widget.NewEntry()
	dialog.ShowForm("New note", "Create", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Title", entry)},
		func(ok bool) {
			if !ok || entry.Text == "" {
				return
			}
			n, err := p.store.CreateNote(context.Background(), p.selectedFolderID(), entry.Text)
			if err != nil {
				dialog.ShowError(err, p.win)
				return
			}
			p.Reload()
			if p.OnOpen != nil {
				p.OnOpen(n.ID)
			}
		}, p.win)
}

func (p *NotesPanel) deleteSelected() {
	id := string(p.selected)
	if id == "" {
		return
	}
	dialog.ShowConfirm("Delete", "Delete \""+p.labels[p.selected]+"\"?", func(ok bool) {
		if !ok {
			return
		}
		var err error
		if folderID, isFolder := strings.CutPrefix(id, folderPrefix); isFolder {
			err = p.store.DeleteFolder(context.Background(), folderID)
		} else if noteID, isNote := strings.CutPrefix(id, notePrefix); isNote {
			err = p.store.DeleteNote(context.Background(), noteID)
		}
		if err != nil {
			dialog.ShowError(err, p.win)
			return
		}
		p.selected = ""
		p.Reload()
	}, p.win)
}
