//go:build sqlite_fts5

package archive

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
			session_path UNINDEXED,
			note_id UNINDEXED,
			content,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, sessionPath, noteID, content string) error {
	_, err := tx.Exec(`INSERT INTO notes_fts (session_path, note_id, content) VALUES (?, ?, ?)`,
		sessionPath, noteID, content)
	if err != nil {
		return fmt.Errorf("archive: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, sessionPath string) {
	_, _ = tx.Exec(`DELETE FROM notes_fts WHERE session_path = ?`, sessionPath)
}

// Search performs an FTS5 full-text search over note content and
// returns matching hits with snippets.
func (db *DB) Search(query string, limit int) ([]NoteHit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT f.session_path,
		       f.note_id,
		       COALESCE(n.number, 0),
		       snippet(notes_fts, 2, '<b>', '</b>', '...', 64)
		FROM notes_fts f
		LEFT JOIN notes n ON n.session_path = f.session_path AND n.note_id = f.note_id
		WHERE notes_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
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
