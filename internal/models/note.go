// Package models defines the domain types for Naudiz.
package models

import "time"

// NoRefPos marks a Note that currently has no cached reference position.
const NoRefPos = -1

// Note is the authoritative record for a single note. It lives in the
// note store, outside the document tree; the document only carries
// reference markers pointing at it. Number is always reassigned by
// renumbering and is never a source of truth for ordering.
type Note struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	Number      int    `json:"number"`
	FirstRefPos int    `json:"first_ref_pos"`
}

// NoteReference is one occurrence of a reference marker in a document,
// as emitted by the scanner. It is derived from a snapshot and never
// persisted on its own.
type NoteReference struct {
	NoteID   string `json:"note_id"`
	Position int    `json:"position"`
	Number   int    `json:"number"`
}

// SessionMetadata is a lightweight representation of a saved session
// file, returned by storage list operations.
type SessionMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
