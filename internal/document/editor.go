package document

// MutationFeed is called once per completed edit with the pre-mutation
// snapshot and the live post-mutation tree. Subscribers may perform
// follow-up attribute rewrites on the post tree (display numbers);
// those writes do not re-enter the feed.
type MutationFeed func(pre, post *Document)

// Editor owns a document and applies mutations transactionally: each
// Apply captures a pre-snapshot, mutates the live tree, records the
// snapshot for undo, and fires the mutation feed. Undo and Redo go
// through the same feed, so subscribers see history navigation as just
// another mutation.
//
// The editor is single-owner: it must be driven from one goroutine
// (the session serializes access).
type Editor struct {
	doc  *Document
	undo []*Document
	redo []*Document
	feed []MutationFeed
}

// NewEditor creates an editor over doc. A nil doc starts an empty document.
func NewEditor(doc *Document) *Editor {
	if doc == nil {
		doc = New()
	}
	return &Editor{doc: doc}
}

// Document returns the live tree. Callers must not mutate it directly;
// all edits go through Apply.
func (e *Editor) Document() *Document {
	return e.doc
}

// Subscribe registers a mutation feed subscriber.
func (e *Editor) Subscribe(fn MutationFeed) {
	e.feed = append(e.feed, fn)
}

// Apply runs mutate against the live tree as one transaction. On error
// the pre-snapshot is restored and nothing is published.
func (e *Editor) Apply(mutate func(d *Document) error) error {
	pre := e.doc.Clone()
	if err := mutate(e.doc); err != nil {
		e.doc = pre
		return err
	}
	e.undo = append(e.undo, pre)
	e.redo = nil
	e.publish(pre, e.doc)
	return nil
}

// Undo reverts the most recent mutation. Returns false when there is
// nothing to undo.
func (e *Editor) Undo() bool {
	if len(e.undo) == 0 {
		return false
	}
	prev := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]

	cur := e.doc
	e.redo = append(e.redo, cur)
	e.doc = prev
	e.publish(cur, e.doc)
	return true
}

// Redo re-applies the most recently undone mutation. Returns false
// when there is nothing to redo.
func (e *Editor) Redo() bool {
	if len(e.redo) == 0 {
		return false
	}
	next := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]

	cur := e.doc
	e.undo = append(e.undo, cur)
	e.doc = next
	e.publish(cur, e.doc)
	return true
}

// CanUndo reports whether the undo stack is non-empty.
func (e *Editor) CanUndo() bool { return len(e.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (e *Editor) CanRedo() bool { return len(e.redo) > 0 }

// Reset replaces the document and clears history without publishing.
// Used when loading a session file.
func (e *Editor) Reset(doc *Document) {
	if doc == nil {
		doc = New()
	}
	e.doc = doc
	e.undo = nil
	e.redo = nil
}

func (e *Editor) publish(pre, post *Document) {
	for _, fn := range e.feed {
		fn(pre, post)
	}
}
