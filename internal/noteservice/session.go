package noteservice

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/starford/naudiz/internal/apperr"
	"github.com/starford/naudiz/internal/document"
	"github.com/starford/naudiz/internal/models"
	"github.com/starford/naudiz/internal/notestore"
	"github.com/starford/naudiz/internal/storage"
)

// FormatName is the format marker carried by every session file.
// Loads reject files that do not declare it.
const FormatName = "flowmark"

// sessionFile is the on-disk shape of a saved session. Notes are
// serialized as an ordered list separate from the document body; the
// document tree never embeds note content.
type sessionFile struct {
	Format   string          `json:"format"`
	Title    string          `json:"title,omitempty"`
	Document json.RawMessage `json:"document"`
	Notes    []savedNote     `json:"notes"`
}

type savedNote struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Number  int    `json:"number"`
}

// Save serializes the session to path (relative to the sessions root),
// appending the session extension when missing.
func (s *Service) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path == "" {
		return fmt.Errorf("save: path is required")
	}
	if !strings.HasSuffix(path, storage.SessionExt) {
		path += storage.SessionExt
	}

	docJSON, err := s.editor.Document().Marshal()
	if err != nil {
		return fmt.Errorf("save: marshal document: %w", err)
	}

	ordered := s.store.Ordered()
	notes := make([]savedNote, len(ordered))
	for i, n := range ordered {
		notes[i] = savedNote{ID: n.ID, Content: n.Content, Number: n.Number}
	}

	data, err := json.MarshalIndent(sessionFile{
		Format:   FormatName,
		Title:    s.title,
		Document: docJSON,
		Notes:    notes,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("save: marshal session: %w", err)
	}
	if err := s.files.Write(path, data); err != nil {
		return err
	}
	s.path = path
	return nil
}

// File is the decoded form of a session file.
type File struct {
	Title    string
	Document *document.Document
	Notes    []models.Note
}

// ParseFile decodes a session file, rejecting unknown formats. Used by
// Load and by the archive indexer.
func ParseFile(data []byte) (*File, error) {
	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	if sf.Format != FormatName {
		return nil, fmt.Errorf("session: format %q: %w", sf.Format, apperr.ErrBadFormat)
	}
	doc, err := document.Unmarshal(sf.Document)
	if err != nil {
		return nil, err
	}
	notes := make([]models.Note, len(sf.Notes))
	for i, n := range sf.Notes {
		notes[i] = models.Note{
			ID:          n.ID,
			Content:     n.Content,
			Number:      n.Number,
			FirstRefPos: models.NoRefPos,
		}
	}
	return &File{Title: sf.Title, Document: doc, Notes: notes}, nil
}

// Load replaces the session with the contents of path: the document is
// rebuilt first, the serialized notes are loaded into the store, and
// one full synchronizer pass (pre treated as empty) reconciles
// numbering. History, cursor, and backup are discarded.
func (s *Service) Load(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.files.Read(path)
	if err != nil {
		return err
	}

	sf, err := ParseFile(data)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	s.store.Reset()
	s.editor.Reset(sf.Document)
	s.cursor = 0
	s.title = sf.Title
	s.path = path

	for _, n := range sf.Notes {
		s.store.Set(n)
	}

	// Reconcile against the freshly built tree.
	notestore.Sync(s.store, document.New(), s.editor.Document(), s.logger)
	return nil
}

// NewDocument discards the session state and starts an empty document.
// The backup is forgotten with the rest of the session.
func (s *Service) NewDocument() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Reset()
	s.editor.Reset(nil)
	s.cursor = 0
	s.title = ""
	s.path = ""
}

// Title returns the session title.
func (s *Service) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// SetTitle sets the session title.
func (s *Service) SetTitle(t string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = t
}

// Path returns the path of the last save or load, empty while unsaved.
func (s *Service) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}
