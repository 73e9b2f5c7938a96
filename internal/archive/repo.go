package archive

import (
	"fmt"
	"time"

	"github.com/starford/naudiz/internal/models"
)

// SessionRow represents a row in the sessions table.
type SessionRow struct {
	Path      string
	Title     string
	Checksum  string
	NoteCount int
	UpdatedAt time.Time
}

// NoteHit is one note-search result.
type NoteHit struct {
	SessionPath string
	NoteID      string
	Number      int
	Snippet     string
}

// Catalog defines the archive operations. Consumers should depend on
// this interface rather than the concrete *DB type to facilitate
// testing with mocks.
type Catalog interface {
	UpsertSession(row SessionRow, notes []models.Note) error
	DeleteSession(path string) error
	ListSessions(limit, offset int) ([]SessionRow, int, error)
	AllChecksums() (map[string]string, error)
	Search(query string, limit int) ([]NoteHit, error)
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)

// UpsertSession inserts or replaces a session row and its notes
// (including the FTS mirror) within a transaction.
func (db *DB) UpsertSession(row SessionRow, notes []models.Note) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("archive: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO sessions (path, title, checksum, note_count, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title      = excluded.title,
			checksum   = excluded.checksum,
			note_count = excluded.note_count,
			updated_at = excluded.updated_at
	`, row.Path, row.Title, row.Checksum, len(notes), row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("archive: upsert session: %w", err)
	}

	// Replace notes: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM notes WHERE session_path = ?`, row.Path)
	ftsDelete(tx, row.Path)
	if len(notes) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO notes (session_path, note_id, content, number) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("archive: prepare note insert: %w", err)
		}
		defer stmt.Close()
		for _, n := range notes {
			if _, err := stmt.Exec(row.Path, n.ID, n.Content, n.Number); err != nil {
				return fmt.Errorf("archive: insert note: %w", err)
			}
			if err := ftsUpsert(tx, row.Path, n.ID, n.Content); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// DeleteSession removes a session row, its notes, and their FTS entries.
func (db *DB) DeleteSession(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("archive: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM notes WHERE session_path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM sessions WHERE path = ?`, path)

	return tx.Commit()
}

// ListSessions returns paginated session rows, newest first, with the
// total row count.
func (db *DB) ListSessions(limit, offset int) ([]SessionRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("archive: count sessions: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT path, title, checksum, note_count, updated_at
		FROM sessions
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("archive: list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var r SessionRow
		if err := rows.Scan(&r.Path, &r.Title, &r.Checksum, &r.NoteCount, &r.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// AllChecksums returns the stored checksum for every cataloged session.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM sessions`)
	if err != nil {
		return nil, fmt.Errorf("archive: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
