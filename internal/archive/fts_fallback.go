//go:build !sqlite_fts5

package archive

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses a LIKE fallback on notes.content.
	return nil
}

func ftsUpsert(_ *sql.Tx, _, _, _ string) error {
	// Content is already stored in the notes table; nothing extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// Search performs a LIKE-based search (fallback when FTS5 is not
// compiled in).
func (db *DB) Search(query string, limit int) ([]NoteHit, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT session_path, note_id, number, substr(content, 1, 200)
		FROM notes
		WHERE content LIKE ?
		LIMIT ?
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("archive: search: %w", err)
	}
	defer rows.Close()

	var out []NoteHit
	for rows.Next() {
		var h NoteHit
		if err := rows.Scan(&h.SessionPath, &h.NoteID, &h.Number, &h.Snippet); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
