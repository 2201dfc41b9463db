// Package store persists the note/folder catalog and each note's drawing on
// SQLite. The whiteboard engine never touches this package; the host loads a
// page, hands it to the engine, and saves it back on the autosave timer.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"inknote/internal/geom"
	"inknote/internal/stroke"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS folders (
    id         TEXT PRIMARY KEY,
    parent_id  TEXT REFERENCES folders(id) ON DELETE CASCADE,
    name       TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS notes (
    id         TEXT PRIMARY KEY,
    folder_id  TEXT REFERENCES folders(id) ON DELETE CASCADE,
    title      TEXT NOT NULL,
    body       TEXT NOT NULL DEFAULT '',
    drawing    TEXT NOT NULL DEFAULT '[]',
    view_x     REAL NOT NULL DEFAULT 0,
    view_y     REAL NOT NULL DEFAULT 0,
    view_scale REAL NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notes_folder ON notes(folder_id);
`

// ErrNotFound is returned when a note or folder id does not exist.
var ErrNotFound = errors.New("not found")

// Folder is one node of the catalog tree. ParentID is empty at the root.
type Folder struct {
	ID       string
	ParentID string
	Name     string
}

// Note is a catalog entry: markdown body plus the page the whiteboard draws
// on. Drawing and Viewport round-trip through the engine untouched.
type Note struct {
	ID        string
	FolderID  string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Page is a note's drawing state: the committed stroke log and the viewport.
type Page struct {
	Strokes  []stroke.Stroke
	Viewport geom.Viewport
}

// Store wraps the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the catalog database at path and runs the
// schema bootstrap.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// nullable maps "" to NULL for the parent/folder foreign keys.
func nullable(id string) any {
	if id == "" {
		return nil
	}
	return id
}

// CreateFolder adds a folder under parentID ("" for the root) and returns it.
func (s *Store) CreateFolder(ctx context.Context, parentID, name string) (*Folder, error) {
	f := &Folder{ID: uuid.NewString(), ParentID: parentID, Name: name}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO folders (id, parent_id, name) VALUES (?, ?, ?)
    `, f.ID, nullable(parentID), name)
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return f, nil
}

// Folders lists the immediate child folders of parentID ("" for the root).
func (s *Store) Folders(ctx context.Context, parentID string) ([]Folder, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, COALESCE(parent_id, ''), name FROM folders
        WHERE COALESCE(parent_id, '') = ? ORDER BY name
    `, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Folder
	for rows.Next() {
		var f Folder
		if err := rows.Scan(&f.ID, &f.ParentID, &f.Name); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// DeleteFolder removes a folder and, via the schema's cascades, everything
// beneath it.
func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id)
	return err
}

// CreateNote adds an empty note in folderID ("" for the root).
func (s *Store) CreateNote(ctx context.Context, folderID, title string) (*Note, error) {
	n := &Note{ID: uuid.NewString(), FolderID: folderID, Title: title}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO notes (id, folder_id, title) VALUES (?, ?, ?)
    `, n.ID, nullable(folderID), title)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

// Note fetches one catalog entry.
func (s *Store) Note(ctx context.Context, id string) (*Note, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, COALESCE(folder_id, ''), title, body, created_at, updated_at
        FROM notes WHERE id = ?
    `, id)

	var n Note
	if err := row.Scan(&n.ID, &n.FolderID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// Notes lists the notes directly inside folderID ("" for the root).
func (s *Store) Notes(ctx context.Context, folderID string) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, COALESCE(folder_id, ''), title, body, created_at, updated_at
        FROM notes WHERE COALESCE(folder_id, '') = ? ORDER BY title
    `, folderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.FolderID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// RenameNote updates a note's title.
func (s *Store) RenameNote(ctx context.Context, id, title string) error {
	return s.touchExec(ctx, `UPDATE notes SET title = ?, updated_at = ? WHERE id = ?`, title, id)
}

// SaveBody updates a note's markdown body.
func (s *Store) SaveBody(ctx context.Context, id, body string) error {
	return s.touchExec(ctx, `UPDATE notes SET body = ?, updated_at = ? WHERE id = ?`, body, id)
}

// DeleteNote removes one note.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	return err
}

func (s *Store) touchExec(ctx context.Context, query string, value, id string) error {
	res, err := s.db.ExecContext(ctx, query, value, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SavePage persists a note's stroke log and viewport.
func (s *Store) SavePage(ctx context.Context, id string, page Page) error {
	drawing, err := json.Marshal(page.Strokes)
	if err != nil {
		return fmt.Errorf("marshal strokes: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
        UPDATE notes SET drawing = ?, view_x = ?, view_y = ?, view_scale = ?, updated_at = ?
        WHERE id = ?
    `, string(drawing), page.Viewport.X, page.Viewport.Y, page.Viewport.Scale, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("save page: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// LoadPage fetches a note's stroke log and viewport.
func (s *Store) LoadPage(ctx context.Context, id string) (*Page, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT drawing, view_x, view_y, view_scale FROM notes WHERE id = ?
    `, id)

	var drawing string
	page := &Page{Viewport: geom.DefaultViewport()}
	if err := row.Scan(&drawing, &page.Viewport.X, &page.Viewport.Y, &page.Viewport.Scale); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(drawing), &page.Strokes); err != nil {
		return nil, fmt.Errorf("decode drawing: %w", err)
	}
	page.Viewport.Scale = geom.ClampScale(page.Viewport.Scale)
	return page, nil
}
