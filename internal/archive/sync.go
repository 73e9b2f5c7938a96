package archive

import (
	"log/slog"
	"time"

	"github.com/starford/naudiz/internal/noteservice"
	"github.com/starford/naudiz/internal/storage"
)

// Sync walks the sessions directory and brings the catalog up to date:
//   - new/changed session files are parsed and upserted
//   - files removed from disk are deleted from the catalog
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, m.Checksum, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteSession(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile parses a session file and upserts it into the catalog.
func indexFile(db *DB, path, cs string, data []byte) error {
	sf, err := noteservice.ParseFile(data)
	if err != nil {
		return err
	}
	row := SessionRow{
		Path:      path,
		Title:     sf.Title,
		Checksum:  cs,
		UpdatedAt: time.Now(),
	}
	return db.UpsertSession(row, sf.Notes)
}
