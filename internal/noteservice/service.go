// Package noteservice implements the document session: the note CRUD
// façade bridging the document editor, the note store, and the
// external content prompt, plus navigation and session persistence.
package noteservice

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/starford/naudiz/internal/apperr"
	"github.com/starford/naudiz/internal/checksum"
	"github.com/starford/naudiz/internal/document"
	"github.com/starford/naudiz/internal/models"
	"github.com/starford/naudiz/internal/notestore"
	"github.com/starford/naudiz/internal/scan"
	"github.com/starford/naudiz/internal/storage"
)

// PromptRequest describes a content-prompt invocation.
type PromptRequest struct {
	Title   string // dialog title, e.g. "New note"
	Initial string // prefilled content for edits
}

// Prompter is the external content-prompt service. Prompt blocks until
// the user confirms or cancels; ok is false on cancel. A single
// concurrent call is assumed. The document may change underneath the
// caller while Prompt is pending; the service re-validates captured
// state before committing.
type Prompter interface {
	Prompt(ctx context.Context, req PromptRequest) (text string, ok bool, err error)
}

// Service owns one document session: the editor, the note store and
// its backup, and the cursor. It is constructed when a document is
// opened and discarded with it. All mutations of the store and the
// document go through the service; rendering and navigation
// collaborators are read-only observers.
type Service struct {
	mu     sync.Mutex
	editor *document.Editor
	store  *notestore.Store
	files  storage.Provider
	logger *slog.Logger

	cursor int
	title  string
	path   string // last save path, empty while unsaved
}

// NewService creates a session over an empty document. The consistency
// synchronizer is subscribed to the editor's mutation feed, so every
// completed edit (including undo/redo) reconciles the store.
func NewService(files storage.Provider, logger *slog.Logger) *Service {
	s := &Service{
		editor: document.NewEditor(nil),
		store:  notestore.New(),
		files:  files,
		logger: logger,
	}
	s.editor.Subscribe(func(pre, post *document.Document) {
		notestore.Sync(s.store, pre, post, s.logger)
	})
	return s
}

// Watch registers an observer for note store mutations.
func (s *Service) Watch(fn notestore.Observer) {
	s.store.Watch(fn)
}

// Document returns a snapshot of the current tree.
func (s *Service) Document() *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Document().Clone()
}

// Apply runs a document mutation transactionally on behalf of the
// embedding editor. The synchronizer runs before Apply returns.
func (s *Service) Apply(mutate func(d *document.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Apply(mutate)
}

// Undo reverts the most recent mutation; Redo re-applies it. Both run
// the synchronizer, which is what restores deleted notes from backup.
func (s *Service) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Undo()
}

// Redo re-applies the most recently undone mutation.
func (s *Service) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Redo()
}

// SetCursor moves the session cursor to a preorder node offset.
func (s *Service) SetCursor(pos int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = s.editor.Document().ClampOffset(pos)
}

// Cursor returns the current cursor offset.
func (s *Service) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Notes returns the ordered, de-duplicated note list for panel rendering.
func (s *Service) Notes() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Ordered()
}

// GetNote returns the note for id.
func (s *Service) GetNote(id string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.store.Get(id)
	if !ok {
		return models.Note{}, apperr.ErrNotFound
	}
	return n, nil
}

// InsertNote runs the insert flow: capture the cursor, prompt for
// content, then insert a reference marker at the (re-validated) cursor
// and upsert the note. Returns (nil, nil) when the prompt is cancelled
// or returns empty content — a normal abort that leaves the document
// and the store untouched. The renumbering triggered by the insert is
// authoritative and may supersede the number assigned here.
func (s *Service) InsertNote(ctx context.Context, prompt Prompter) (*models.Note, error) {
	s.mu.Lock()
	capturedPos := s.cursor
	capturedSum := s.documentSum()
	s.mu.Unlock()

	text, ok, err := prompt.Prompt(ctx, PromptRequest{Title: "New note"})
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(text) == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos := capturedPos
	if s.documentSum() != capturedSum {
		// Document changed during the prompt; the captured offset may
		// point at a different node. Fall back to the current cursor.
		s.logger.Debug("insert: stale capture, re-resolving position")
		pos = s.editor.Document().ClampOffset(s.cursor)
	}

	doc := s.editor.Document()
	refs, _ := scan.References(doc)
	number := len(scan.DistinctIDs(refs)) + 1
	id := uuid.NewString()

	s.store.Set(models.Note{
		ID:          id,
		Content:     text,
		Number:      number,
		FirstRefPos: models.NoRefPos,
	})

	var insertedAt int
	if err := s.editor.Apply(func(d *document.Document) error {
		insertedAt = d.InsertReference(pos, id, number)
		return nil
	}); err != nil {
		return nil, err
	}
	s.cursor = insertedAt

	n, _ := s.store.Get(id)
	return &n, nil
}

// EditNote runs the edit flow: pre-fill the prompt with the current
// content and upsert on confirm. Returns (nil, nil) on cancel. If the
// note is deleted while the prompt is pending, the edit aborts
// silently rather than resurrecting it.
func (s *Service) EditNote(ctx context.Context, id string, prompt Prompter) (*models.Note, error) {
	s.mu.Lock()
	n, ok := s.store.Get(id)
	s.mu.Unlock()
	if !ok {
		return nil, apperr.ErrNotFound
	}

	text, confirmed, err := prompt.Prompt(ctx, PromptRequest{Title: "Edit note", Initial: n.Content})
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.store.Get(id)
	if !ok {
		s.logger.Debug("edit: note deleted during prompt, aborting", slog.String("id", id))
		return nil, nil
	}
	cur.Content = text
	s.store.Set(cur)
	return &cur, nil
}

// DeleteNote removes every reference marker for id from the document.
// The synchronizer observes the mutation, backs the note up, removes
// it from the store, and renumbers the survivors.
func (s *Service) DeleteNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Get(id); !ok {
		return apperr.ErrNotFound
	}
	return s.editor.Apply(func(d *document.Document) error {
		d.RemoveReferences(id)
		return nil
	})
}

// NavigateToReference resolves the document offset of the first
// reference marker for id. The cached position is validated against
// the live tree; on a stale hit the document is re-scanned before the
// navigation fails.
func (s *Service) NavigateToReference(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.editor.Document()
	if n, ok := s.store.Get(id); ok && n.FirstRefPos != models.NoRefPos {
		if node := doc.NodeAt(n.FirstRefPos); node != nil &&
			node.Type == document.NodeNoteRef && node.NoteID == id {
			return n.FirstRefPos, nil
		}
	}

	// Stale or missing cache: fresh scan of the current tree.
	refs, _ := scan.References(doc)
	for _, r := range refs {
		if r.NoteID == id {
			s.store.SetFirstRefPos(id, r.Position)
			return r.Position, nil
		}
	}
	return 0, apperr.ErrNotFound
}

// NavigateToNote resolves id to its note for panel focus.
func (s *Service) NavigateToNote(id string) (models.Note, error) {
	return s.GetNote(id)
}

func (s *Service) documentSum() string {
	data, err := s.editor.Document().Marshal()
	if err != nil {
		return ""
	}
	return checksum.Sum(data)
}
