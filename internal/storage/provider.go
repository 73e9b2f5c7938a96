// Package storage defines the sessions-directory file abstraction.
package storage

import "github.com/starford/naudiz/internal/models"

// SessionExt is the extension of saved session files.
const SessionExt = ".flm"

// Provider is the interface for session file operations.
type Provider interface {
	// List returns metadata for every session file under dir (relative
	// to the sessions root).
	List(dir string) ([]models.SessionMetadata, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to the root).
	Delete(path string) error
}
