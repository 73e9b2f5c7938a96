package archive

import (
	"os"
	"testing"
	"time"

	"github.com/starford/naudiz/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "naudiz-archive-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertAndListSessions(t *testing.T) {
	db := testDB(t)

	older := SessionRow{Path: "a.flm", Title: "First", Checksum: "cs-a", UpdatedAt: time.Now().Add(-time.Hour)}
	newer := SessionRow{Path: "b.flm", Title: "Second", Checksum: "cs-b", UpdatedAt: time.Now()}
	if err := db.UpsertSession(older, []models.Note{{ID: "n1", Content: "alpha", Number: 1}}); err != nil {
		t.Fatalf("UpsertSession: %v", err)
	}
	if err := db.UpsertSession(newer, nil); err != nil {
		t.Fatalf("UpsertSession: %v", err)
	}

	rows, total, err := db.ListSessions(10, 0)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("total = %d, rows = %d, want 2", total, len(rows))
	}
	if rows[0].Path != "b.flm" {
		t.Errorf("rows[0] = %s, want b.flm (newest first)", rows[0].Path)
	}
	if rows[1].NoteCount != 1 {
		t.Errorf("a.flm note_count = %d, want 1", rows[1].NoteCount)
	}
}

func TestUpsertReplacesNotes(t *testing.T) {
	db := testDB(t)
	row := SessionRow{Path: "a.flm", Checksum: "v1", UpdatedAt: time.Now()}

	notes := []models.Note{
		{ID: "n1", Content: "one", Number: 1},
		{ID: "n2", Content: "two", Number: 2},
	}
	if err := db.UpsertSession(row, notes); err != nil {
		t.Fatal(err)
	}

	row.Checksum = "v2"
	if err := db.UpsertSession(row, notes[:1]); err != nil {
		t.Fatal(err)
	}

	rows, _, err := db.ListSessions(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].NoteCount != 1 {
		t.Errorf("note_count = %d, want 1 after replace", rows[0].NoteCount)
	}
	if rows[0].Checksum != "v2" {
		t.Errorf("checksum = %s, want v2", rows[0].Checksum)
	}
}

func TestDeleteSession(t *testing.T) {
	db := testDB(t)
	row := SessionRow{Path: "a.flm", Checksum: "cs", UpdatedAt: time.Now()}
	_ = db.UpsertSession(row, []models.Note{{ID: "n1", Content: "x", Number: 1}})

	if err := db.DeleteSession("a.flm"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	_, total, err := db.ListSessions(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("total = %d after delete, want 0", total)
	}
	hits, err := db.Search("x", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("search still finds deleted session: %v", hits)
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertSession(SessionRow{Path: "a.flm", Checksum: "cs-a", UpdatedAt: time.Now()}, nil)
	_ = db.UpsertSession(SessionRow{Path: "b.flm", Checksum: "cs-b", UpdatedAt: time.Now()}, nil)

	got, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if got["a.flm"] != "cs-a" || got["b.flm"] != "cs-b" {
		t.Errorf("checksums = %v", got)
	}
}

func TestSearch(t *testing.T) {
	db := testDB(t)
	row := SessionRow{Path: "a.flm", Title: "Notes", Checksum: "cs", UpdatedAt: time.Now()}
	notes := []models.Note{
		{ID: "n1", Content: "the quick brown fox", Number: 1},
		{ID: "n2", Content: "nothing relevant", Number: 2},
	}
	if err := db.UpsertSession(row, notes); err != nil {
		t.Fatal(err)
	}

	hits, err := db.Search("quick", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].SessionPath != "a.flm" || hits[0].NoteID != "n1" {
		t.Errorf("hit = %+v", hits[0])
	}
	if hits[0].Number != 1 {
		t.Errorf("hit number = %d, want 1", hits[0].Number)
	}
	if hits[0].Snippet == "" {
		t.Error("empty snippet")
	}
}

func TestSearchNoResults(t *testing.T) {
	db := testDB(t)
	hits, err := db.Search("zxqv", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %v, want none", hits)
	}
}
