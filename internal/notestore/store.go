// Package notestore implements the authoritative note store, the
// deletion backup, renumbering, and the consistency synchronizer that
// keeps the store aligned with a document's reference markers.
package notestore

import (
	"sort"

	"github.com/starford/naudiz/internal/models"
)

// EventKind classifies a store mutation for observers.
type EventKind string

const (
	EventCreated    EventKind = "created"
	EventUpdated    EventKind = "updated"
	EventRemoved    EventKind = "removed"
	EventRestored   EventKind = "restored"
	EventRenumbered EventKind = "renumbered"
)

// Event describes one store mutation. NoteID is empty for renumber events.
type Event struct {
	Kind   EventKind
	NoteID string
}

// Observer receives store mutation events. Observers are read-only
// collaborators; they must not mutate the store from the callback.
type Observer func(Event)

// Store is the authoritative map from note id to note, together with
// the deletion backup. It is owned by a document session and discarded
// with it; there is no package-level instance.
//
// The backup holds the last-known note for every id whose final
// reference was removed. Entries are kept after restore (a redo of the
// delete reads them again) and are never evicted within the session —
// the backup's lifetime is the session's lifetime.
type Store struct {
	notes     map[string]models.Note
	backup    map[string]models.Note
	observers []Observer
}

// New creates an empty store.
func New() *Store {
	return &Store{
		notes:  make(map[string]models.Note),
		backup: make(map[string]models.Note),
	}
}

// Watch registers an observer for store mutations.
func (s *Store) Watch(fn Observer) {
	s.observers = append(s.observers, fn)
}

// Get returns the note for id, if present.
func (s *Store) Get(id string) (models.Note, bool) {
	n, ok := s.notes[id]
	return n, ok
}

// Set upserts a note.
func (s *Store) Set(n models.Note) {
	kind := EventUpdated
	if _, ok := s.notes[n.ID]; !ok {
		kind = EventCreated
	}
	s.notes[n.ID] = n
	s.notify(Event{Kind: kind, NoteID: n.ID})
}

// Remove deletes the note for id from the store and writes it into the
// backup. No-op (and no backup write) when id is absent.
func (s *Store) Remove(id string) {
	n, ok := s.notes[id]
	if !ok {
		return
	}
	s.backup[id] = n
	delete(s.notes, id)
	s.notify(Event{Kind: EventRemoved, NoteID: id})
}

// Restore re-inserts the backed-up note for id into the store. The
// backup entry is retained so a subsequent delete/undo cycle still
// finds it. Returns false when the backup has no entry for id.
func (s *Store) Restore(id string) bool {
	n, ok := s.backup[id]
	if !ok {
		return false
	}
	s.notes[id] = n
	s.notify(Event{Kind: EventRestored, NoteID: id})
	return true
}

// HasBackup reports whether the backup holds an entry for id.
func (s *Store) HasBackup(id string) bool {
	_, ok := s.backup[id]
	return ok
}

// Renumber reassigns numbers 1..N to exactly the ids in orderedIDs
// (unique by first occurrence). Ids listed but missing from the store
// get a fresh empty note, keeping every referenced id backed by a
// store entry. Notes in the store but absent from orderedIDs have no
// surviving reference: they are moved to the backup and dropped.
func (s *Store) Renumber(orderedIDs []string) {
	numbers := Assign(orderedIDs)

	for id := range s.notes {
		if _, ok := numbers[id]; !ok {
			s.backup[id] = s.notes[id]
			delete(s.notes, id)
		}
	}
	for id, num := range numbers {
		n, ok := s.notes[id]
		if !ok {
			n = models.Note{ID: id, FirstRefPos: models.NoRefPos}
		}
		n.Number = num
		s.notes[id] = n
	}
	s.notify(Event{Kind: EventRenumbered})
}

// SetFirstRefPos refreshes the cached position of the first reference
// for id. Position maintenance is cache-only and does not notify.
func (s *Store) SetFirstRefPos(id string, pos int) {
	n, ok := s.notes[id]
	if !ok {
		return
	}
	n.FirstRefPos = pos
	s.notes[id] = n
}

// Ordered returns the notes sorted by number, for notes-panel rendering.
func (s *Store) Ordered() []models.Note {
	out := make([]models.Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Len returns the number of notes currently in the store.
func (s *Store) Len() int { return len(s.notes) }

// Reset clears the store and the backup. Used when a session is
// discarded or a new document is loaded.
func (s *Store) Reset() {
	s.notes = make(map[string]models.Note)
	s.backup = make(map[string]models.Note)
}

func (s *Store) notify(ev Event) {
	for _, fn := range s.observers {
		fn(ev)
	}
}
