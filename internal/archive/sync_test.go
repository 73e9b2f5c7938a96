package archive

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/naudiz/internal/storage"
)

func silent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sessionJSON(title string) []byte {
	return []byte(`{
	  "format": "flowmark",
	  "title": "` + title + `",
	  "document": {"type":"doc"},
	  "notes": [{"id":"n1","content":"searchable body","number":1}]
	}`)
}

func syncEnv(t *testing.T) (storage.Provider, *DB) {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store, testDB(t)
}

func TestSyncIndexesNewFiles(t *testing.T) {
	store, db := syncEnv(t)
	if err := store.Write("a.flm", sessionJSON("First")); err != nil {
		t.Fatal(err)
	}

	if err := Sync(db, store, silent()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	rows, total, err := db.ListSessions(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
	if rows[0].Title != "First" || rows[0].NoteCount != 1 {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestSyncSkipsUnchanged(t *testing.T) {
	store, db := syncEnv(t)
	_ = store.Write("a.flm", sessionJSON("First"))
	if err := Sync(db, store, silent()); err != nil {
		t.Fatal(err)
	}
	before, _ := db.AllChecksums()

	// A second pass over an unchanged directory must not drop anything.
	if err := Sync(db, store, silent()); err != nil {
		t.Fatal(err)
	}
	after, _ := db.AllChecksums()
	if len(before) != len(after) || before["a.flm"] != after["a.flm"] {
		t.Errorf("checksums changed: %v vs %v", before, after)
	}
}

func TestSyncRemovesStale(t *testing.T) {
	store, db := syncEnv(t)
	_ = store.Write("a.flm", sessionJSON("First"))
	if err := Sync(db, store, silent()); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete("a.flm"); err != nil {
		t.Fatal(err)
	}
	if err := Sync(db, store, silent()); err != nil {
		t.Fatal(err)
	}

	_, total, err := db.ListSessions(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("total = %d after removal, want 0", total)
	}
}

func TestSyncIgnoresUnparseableFiles(t *testing.T) {
	store, db := syncEnv(t)
	_ = store.Write("bad.flm", []byte("not a session"))
	_ = store.Write("good.flm", sessionJSON("Good"))

	if err := Sync(db, store, silent()); err != nil {
		t.Fatalf("Sync should tolerate bad files: %v", err)
	}
	_, total, err := db.ListSessions(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1 (only the parseable file)", total)
	}
}
