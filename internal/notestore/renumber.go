package notestore

// Assign is the renumbering algorithm: the first occurrence of an id
// at index k (0-based) in orderedIDs maps to number k+1. Duplicate ids
// keep their first-occurrence number. The function is pure and
// idempotent; no other component assigns numbers.
func Assign(orderedIDs []string) map[string]int {
	out := make(map[string]int, len(orderedIDs))
	next := 1
	for _, id := range orderedIDs {
		if _, ok := out[id]; ok {
			continue
		}
		out[id] = next
		next++
	}
	return out
}
