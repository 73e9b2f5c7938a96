// Package scan extracts note references from document snapshots.
package scan

import (
	"github.com/starford/naudiz/internal/document"
	"github.com/starford/naudiz/internal/models"
)

// References walks a document snapshot depth-first, left-to-right, and
// returns every reference marker in document order, regardless of
// nesting. Markers with an empty note id are skipped and counted in
// malformed; they are invisible to numbering. The walk has no side
// effects and is deterministic for a given snapshot.
func References(d *document.Document) (refs []models.NoteReference, malformed int) {
	d.Walk(func(n *document.Node, offset int) bool {
		if n.Type != document.NodeNoteRef {
			return true
		}
		if n.NoteID == "" {
			malformed++
			return true
		}
		refs = append(refs, models.NoteReference{
			NoteID:   n.NoteID,
			Position: offset,
			Number:   n.Number,
		})
		return true
	})
	return refs, malformed
}

// DistinctIDs returns the ids of refs deduplicated by first occurrence,
// preserving document order.
func DistinctIDs(refs []models.NoteReference) []string {
	seen := make(map[string]struct{}, len(refs))
	var out []string
	for _, r := range refs {
		if _, ok := seen[r.NoteID]; ok {
			continue
		}
		seen[r.NoteID] = struct{}{}
		out = append(out, r.NoteID)
	}
	return out
}

// FirstPositions returns, per id, the position of its first reference.
func FirstPositions(refs []models.NoteReference) map[string]int {
	out := make(map[string]int, len(refs))
	for _, r := range refs {
		if _, ok := out[r.NoteID]; !ok {
			out[r.NoteID] = r.Position
		}
	}
	return out
}
