package notestore

import (
	"log/slog"

	"github.com/starford/naudiz/internal/document"
	"github.com/starford/naudiz/internal/scan"
)

// Sync is the consistency hook, invoked once per completed document
// mutation (including undo/redo) with the pre-mutation snapshot and
// the live post-mutation tree:
//   - ids whose last reference disappeared are removed (and backed up)
//   - ids that reappeared are restored from the backup
//   - the store is renumbered in first-occurrence document order and
//     stale display numbers on the post tree are rewritten in place
//   - cached first-reference positions are refreshed
//
// Sync runs fully to completion; it never fails for a well-formed
// document. Reference markers with an empty id are skipped and logged
// as a soft warning.
func Sync(store *Store, pre, post *document.Document, logger *slog.Logger) {
	oldRefs, _ := scan.References(pre)
	newRefs, malformed := scan.References(post)
	if malformed > 0 {
		logger.Warn("sync: skipped references with empty id", slog.Int("count", malformed))
	}

	oldIDs := scan.DistinctIDs(oldRefs)
	newIDs := scan.DistinctIDs(newRefs)

	newSet := make(map[string]struct{}, len(newIDs))
	for _, id := range newIDs {
		newSet[id] = struct{}{}
	}
	for _, id := range oldIDs {
		if _, ok := newSet[id]; !ok {
			store.Remove(id)
		}
	}

	oldSet := make(map[string]struct{}, len(oldIDs))
	for _, id := range oldIDs {
		oldSet[id] = struct{}{}
	}
	for _, id := range newIDs {
		if _, ok := oldSet[id]; !ok {
			if store.Restore(id) {
				logger.Debug("sync: restored from backup", slog.String("id", id))
			}
		}
	}

	store.Renumber(newIDs)
	post.SetReferenceNumbers(Assign(newIDs))

	for id, pos := range scan.FirstPositions(newRefs) {
		store.SetFirstRefPos(id, pos)
	}
}
