package api

import (
	"encoding/json"
	"time"

	"github.com/starford/naudiz/internal/models"
)

// InsertNoteRequest is the request body for inserting a note. Content
// stands in for the content-prompt answer; an empty content is a
// cancellation and the insert is a no-op.
type InsertNoteRequest struct {
	Content  string `json:"content"`
	Position *int   `json:"position,omitempty"` // optional cursor move before insert
}

// EditNoteRequest is the request body for editing a note's content.
type EditNoteRequest struct {
	Content string `json:"content"`
}

// NoteListResponse wraps the ordered note list.
type NoteListResponse struct {
	Notes []models.Note `json:"notes"`
	Total int           `json:"total"`
}

// DocumentResponse describes the current session.
type DocumentResponse struct {
	Title    string          `json:"title"`
	Path     string          `json:"path,omitempty"`
	Cursor   int             `json:"cursor"`
	Document json.RawMessage `json:"document"`
}

// PathRequest carries a session file path for save/load.
type PathRequest struct {
	Path string `json:"path"`
}

// CursorRequest moves the session cursor.
type CursorRequest struct {
	Position int `json:"position"`
}

// NavigateResponse is the resolved target of a navigation request.
type NavigateResponse struct {
	Position int `json:"position"`
}

// HistoryResponse reports whether an undo/redo step was applied.
type HistoryResponse struct {
	Applied bool `json:"applied"`
}

// SessionListItem is one archived session in a list response.
type SessionListItem struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Checksum  string    `json:"checksum"`
	NoteCount int       `json:"note_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionListResponse wraps paginated session listings.
type SessionListResponse struct {
	Sessions []SessionListItem `json:"sessions"`
	Total    int               `json:"total"`
}

// SearchResult is a single note-search hit.
type SearchResult struct {
	Session string `json:"session"`
	NoteID  string `json:"note_id"`
	Number  int    `json:"number"`
	Snippet string `json:"snippet"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}
