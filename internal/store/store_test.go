package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"inknote/internal/geom"
	"inknote/internal/stroke"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "inknote.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCatalogCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	folder, err := s.CreateFolder(ctx, "", "Math")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	note, err := s.CreateNote(ctx, folder.ID, "Limits")
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	got, err := s.Note(ctx, note.ID)
	if err != nil {
		t.Fatalf("fetch note: %v", err)
	}
	if got.Title != "Limits" || got.FolderID != folder.ID {
		t.Errorf("note = %+v", got)
	}

	if err := s.RenameNote(ctx, note.ID, "Limits & Continuity"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := s.SaveBody(ctx, note.ID, "# Limits\nsome notes"); err != nil {
		t.Fatalf("save body: %v", err)
	}

	inFolder, err := s.Notes(ctx, folder.ID)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(inFolder) != 1 || inFolder[0].Title != "Limits & Continuity" || inFolder[0].Body == "" {
		t.Errorf("folder listing = %+v", inFolder)
	}

	roots, err := s.Folders(ctx, "")
	if err != nil || len(roots) != 1 || roots[0].Name != "Math" {
		t.Errorf("root folders = %+v (%v)", roots, err)
	}

	if err := s.DeleteNote(ctx, note.ID); err != nil {
		t.Fatalf("delete note: %v", err)
	}
	if _, err := s.Note(ctx, note.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("fetch after delete: %v, want ErrNotFound", err)
	}
}

func TestDeleteFolderCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	folder, _ := s.CreateFolder(ctx, "", "Physics")
	note, _ := s.CreateNote(ctx, folder.ID, "Waves")

	if err := s.DeleteFolder(ctx, folder.ID); err != nil {
		t.Fatalf("delete folder: %v", err)
	}
	if _, err := s.Note(ctx, note.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("note survived folder deletion: %v", err)
	}
}

func TestPageRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	note, _ := s.CreateNote(ctx, "", "Sketch")

	// A fresh note loads an empty page with the identity viewport.
	fresh, err := s.LoadPage(ctx, note.ID)
	if err != nil {
		t.Fatalf("load fresh page: %v", err)
	}
	if len(fresh.Strokes) != 0 || fresh.Viewport != geom.DefaultViewport() {
		t.Errorf("fresh page = %+v", fresh)
	}

	page := Page{
		Strokes: []stroke.Stroke{
			{
				ID: "a", Tool: stroke.ToolPen, Width: 3,
				Color:  stroke.Color{R: 20, G: 30, B: 40, A: 255},
				Points: []stroke.Point{{X: 1, Y: 2}, {X: 3, Y: 4, Pressure: 0.7}},
			},
			{
				ID: "b", Tool: stroke.ToolRectangle, Width: 2, Filled: true,
				Color:  stroke.Color{A: 255},
				Points: []stroke.Point{{X: 0, Y: 0}, {X: 50, Y: 20}},
			},
		},
		Viewport: geom.Viewport{X: -12.5, Y: 80, Scale: 1.75},
	}
	if err := s.SavePage(ctx, note.ID, page); err != nil {
		t.Fatalf("save page: %v", err)
	}

	got, err := s.LoadPage(ctx, note.ID)
	if err != nil {
		t.Fatalf("load page: %v", err)
	}
	if got.Viewport != page.Viewport {
		t.Errorf("viewport = %+v, want %+v", got.Viewport, page.Viewport)
	}
	if len(got.Strokes) != 2 {
		t.Fatalf("strokes = %d, want 2", len(got.Strokes))
	}
	if got.Strokes[0].Points[1].Pressure != 0.7 {
		t.Errorf("pressure lost: %+v", got.Strokes[0].Points[1])
	}
	if got.Strokes[1].Tool != stroke.ToolRectangle || !got.Strokes[1].Filled {
		t.Errorf("shape stroke mangled: %+v", got.Strokes[1])
	}
}

func TestSavePageUnknownNote(t *testing.T) {
	s := openTestStore(t)
	err := s.SavePage(context.Background(), "missing", Page{Viewport: geom.DefaultViewport()})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("save to unknown note: %v, want ErrNotFound", err)
	}
}

func TestLoadPageClampsStoredScale(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	note, _ := s.CreateNote(ctx, "", "Zoomed")

	if err := s.SavePage(ctx, note.ID, Page{Viewport: geom.Viewport{Scale: 40}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadPage(ctx, note.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Viewport.Scale != geom.MaxScale {
		t.Errorf("scale = %v, want clamped to %v", got.Viewport.Scale, geom.MaxScale)
	}
}
