package mcpserver

// NoteContract describes how notes behave in a Naudiz document, for
// LLM consumers driving the tools.
const NoteContract = `# Naudiz Note Contract

A Naudiz document is a tree of typed nodes. Notes are NOT part of the
tree: the tree only carries inline reference markers, and the note
content lives in a separate store keyed by note id.

## Rules

1. **Numbers are derived.** Every note's number is recomputed after
   each edit from the document order of the first reference to its id
   (1..N, no gaps). Never try to set a number yourself.
2. **A note with several references shares one number.**
3. **Deleting a note** removes every reference marker for its id; the
   content is kept in a backup so an undo restores it exactly.
4. **Inserting a note** places a reference marker at the current
   cursor and stores the supplied content under a fresh id. Supplying
   empty content cancels the insert and changes nothing.
5. **Editing a note** replaces its content only; references and
   numbering are untouched.
6. **Navigation** resolves a note id to the document offset of its
   first reference marker.

## Tools

- ` + "`list_notes`" + ` — ordered notes (id, content, number).
- ` + "`read_note`" + ` — one note by id.
- ` + "`insert_note`" + ` — insert at the cursor with given content.
- ` + "`edit_note`" + ` — replace a note's content.
- ` + "`delete_note`" + ` — remove all references for an id.
- ` + "`navigate_note`" + ` — offset of the first reference for an id.
- ` + "`search_notes`" + ` — full-text search across archived sessions.
`
