// Package testutil provides shared test helpers for setting up
// sessions directories and archive databases.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/starford/naudiz/internal/archive"
	"github.com/starford/naudiz/internal/storage"
)

// TestArchive creates a temporary SQLite archive that is automatically
// cleaned up.
func TestArchive(t *testing.T) *archive.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "naudiz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := archive.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestSessions creates a temporary sessions directory with a
// storage.Provider.
func TestSessions(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	files, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, files
}

// Silent returns a logger that discards everything.
func Silent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
