// Package storage provides SQLite-based primary storage for maps.
// A permanent save lands here; recovery snapshots live elsewhere.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
)

// scratchGroup is the group stored for the unpositioned scratch map.
const scratchGroup = -1

// Store manages the SQLite database connection for map persistence and a
// cache of decoded documents.
type Store struct {
	db    *sql.DB
	cache *ristretto.Cache[string, *mapdoc.Document]
}

// MapEntry describes a stored map without its contents.
type MapEntry struct {
	Ref       mapdoc.Ref
	Width     int
	Height    int
	Size      int
	Revision  int
	SavedBy   string
	UpdatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, *mapdoc.Document]{
		NumCounters: 10000,
		MaxCost:     16 << 20, // cells
		BufferItems: 64,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot create cache: %w", err)
	}

	store := &Store{db: db, cache: cache}

	if err := store.migrate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS maps (
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			grp INTEGER NOT NULL,
			scratch INTEGER NOT NULL DEFAULT 0,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			data BLOB NOT NULL,
			revision INTEGER NOT NULL DEFAULT 1,
			saved_by TEXT NOT NULL DEFAULT '',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (x, y, grp, scratch)
		);
		CREATE INDEX IF NOT EXISTS idx_maps_group ON maps(grp, y, x);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection and drops the cache.
func (s *Store) Close() error {
	if s.cache != nil {
		s.cache.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// key returns the table key for a map. The scratch map uses a reserved
// (0, 0, -1) key with the scratch flag set.
func key(ref mapdoc.Ref) (x, y, grp int32, scratch int) {
	if !ref.Positioned {
		return 0, 0, scratchGroup, 1
	}
	return ref.Pos.X, ref.Pos.Y, ref.Pos.Group, 0
}

func cacheKey(ref mapdoc.Ref) string {
	return ref.String()
}

// SaveMap stores doc as the permanent contents of ref, replacing any
// previous version. savedBy identifies the editing session.
func (s *Store) SaveMap(ref mapdoc.Ref, doc *mapdoc.Document, savedBy string) error {
	data, err := mapdoc.Encode(doc)
	if err != nil {
		return fmt.Errorf("storage: cannot encode map %s: %w", ref, err)
	}

	x, y, grp, scratch := key(ref)
	_, err = s.db.Exec(
		`INSERT INTO maps (x, y, grp, scratch, width, height, data, saved_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (x, y, grp, scratch) DO UPDATE SET
			width = excluded.width,
			height = excluded.height,
			data = excluded.data,
			revision = maps.revision + 1,
			saved_by = excluded.saved_by,
			updated_at = CURRENT_TIMESTAMP`,
		x, y, grp, scratch, doc.Width, doc.Height, data, savedBy,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save map %s: %w", ref, err)
	}

	s.cache.Del(cacheKey(ref))
	s.cache.Set(cacheKey(ref), doc.Clone(), cost(doc))
	s.cache.Wait()
	return nil
}

// LoadMap returns the stored contents of ref, or nil if the map has never
// been saved. The returned document is owned by the caller.
func (s *Store) LoadMap(ref mapdoc.Ref) (*mapdoc.Document, error) {
	if doc, ok := s.cache.Get(cacheKey(ref)); ok {
		return doc.Clone(), nil
	}

	x, y, grp, scratch := key(ref)
	var data []byte
	err := s.db.QueryRow(
		"SELECT data FROM maps WHERE x = ? AND y = ? AND grp = ? AND scratch = ?",
		x, y, grp, scratch,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query map %s: %w", ref, err)
	}

	doc, err := mapdoc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("storage: map %s: %w", ref, err)
	}

	s.cache.Set(cacheKey(ref), doc.Clone(), cost(doc))
	return doc, nil
}

// HasMap reports whether ref has been saved.
func (s *Store) HasMap(ref mapdoc.Ref) (bool, error) {
	x, y, grp, scratch := key(ref)
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM maps WHERE x = ? AND y = ? AND grp = ? AND scratch = ?",
		x, y, grp, scratch,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("storage: cannot query map %s: %w", ref, err)
	}
	return n > 0, nil
}

// ListMaps returns every stored map ordered by group, row and column, with
// the scratch map last.
func (s *Store) ListMaps() ([]MapEntry, error) {
	rows, err := s.db.Query(
		`SELECT x, y, grp, scratch, width, height, LENGTH(data), revision, saved_by, updated_at
		 FROM maps
		 ORDER BY scratch, grp, y, x`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query maps: %w", err)
	}
	defer rows.Close()

	var entries []MapEntry
	for rows.Next() {
		var (
			e         MapEntry
			x, y, grp int32
			scratch   int
			updatedAt any
		)
		if err := rows.Scan(&x, &y, &grp, &scratch, &e.Width, &e.Height, &e.Size, &e.Revision, &e.SavedBy, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if scratch == 0 {
			e.Ref = mapdoc.At(mapdoc.P(x, y, grp))
		}
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// DeleteMap removes ref from storage. Deleting a missing map succeeds.
func (s *Store) DeleteMap(ref mapdoc.Ref) error {
	x, y, grp, scratch := key(ref)
	_, err := s.db.Exec(
		"DELETE FROM maps WHERE x = ? AND y = ? AND grp = ? AND scratch = ?",
		x, y, grp, scratch,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot delete map %s: %w", ref, err)
	}
	s.cache.Del(cacheKey(ref))
	s.cache.Wait()
	return nil
}

func cost(doc *mapdoc.Document) int64 {
	if n := int64(doc.Width) * int64(doc.Height); n > 0 {
		return n
	}
	return 1
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
