package notestore

import "testing"

func TestAssignFirstOccurrence(t *testing.T) {
	got := Assign([]string{"A", "B", "A"})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got["A"] != 1 {
		t.Errorf("A = %d, want 1", got["A"])
	}
	if got["B"] != 2 {
		t.Errorf("B = %d, want 2", got["B"])
	}
}

func TestAssignEmpty(t *testing.T) {
	if got := Assign(nil); len(got) != 0 {
		t.Errorf("Assign(nil) = %v, want empty", got)
	}
}

func TestAssignIdempotent(t *testing.T) {
	ids := []string{"x", "y", "x", "z", "y"}
	first := Assign(ids)
	second := Assign(ids)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for id, n := range first {
		if second[id] != n {
			t.Errorf("%s = %d then %d", id, n, second[id])
		}
	}
}

func TestAssignDense(t *testing.T) {
	got := Assign([]string{"c", "a", "b"})
	seen := make(map[int]bool)
	for _, n := range got {
		if n < 1 || n > 3 {
			t.Errorf("number %d out of range 1..3", n)
		}
		if seen[n] {
			t.Errorf("number %d assigned twice", n)
		}
		seen[n] = true
	}
}
