// Package recovery stores one crash-recovery snapshot per map on disk.
// Files are named after the map position (x_y_group.rec); the unpositioned
// scratch map shares a single fixed file name.
package recovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vovakirdan/tui-mapedit/internal/filestore"
	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
)

const (
	ext              = ".rec"
	unpositionedName = "unpositioned" + ext
)

// Store reads and writes recovery snapshots in a single directory.
// It keeps no state between calls and never retries failed I/O.
type Store struct {
	dir    string
	writer *filestore.Writer
}

// Entry describes a snapshot found on disk.
type Entry struct {
	Ref     mapdoc.Ref
	Path    string
	Size    int64
	ModTime time.Time
}

// Open creates the recovery directory if needed and returns a store over it.
func Open(dir string) (*Store, error) {
	dir, err := filestore.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("recovery: %w", err)
	}
	return &Store{dir: dir, writer: filestore.NewWriter(0o600)}, nil
}

// Dir returns the recovery directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the snapshot file path for a map.
func (s *Store) Path(ref mapdoc.Ref) string {
	if !ref.Positioned {
		return filepath.Join(s.dir, unpositionedName)
	}
	return filepath.Join(s.dir, ref.Pos.String()+ext)
}

// WriteSnapshot encodes doc and atomically replaces the snapshot for ref.
// Success is only reported once the file is complete on disk.
func (s *Store) WriteSnapshot(ref mapdoc.Ref, doc *mapdoc.Document) error {
	data, err := mapdoc.Encode(doc)
	if err != nil {
		return fmt.Errorf("recovery: cannot encode snapshot %s: %w", ref, err)
	}
	return s.writer.WriteFile(s.Path(ref), data)
}

// SnapshotExists reports whether a snapshot is stored for ref.
func (s *Store) SnapshotExists(ref mapdoc.Ref) bool {
	return filestore.Exists(s.Path(ref))
}

// DeleteSnapshot removes the snapshot for ref. Deleting a missing
// snapshot succeeds.
func (s *Store) DeleteSnapshot(ref mapdoc.Ref) error {
	return filestore.Remove(s.Path(ref))
}

// ReadSnapshot loads and decodes the snapshot for ref.
func (s *Store) ReadSnapshot(ref mapdoc.Ref) (*mapdoc.Document, error) {
	data, err := filestore.ReadFile(s.Path(ref))
	if err != nil {
		return nil, err
	}
	doc, err := mapdoc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("recovery: snapshot %s: %w", ref, err)
	}
	return doc, nil
}

// List returns every snapshot in the directory: positioned maps sorted by
// file name, then the unpositioned snapshot if present. Files that do not
// follow the naming scheme are ignored.
func (s *Store) List() ([]Entry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &filestore.IOError{Op: "list", Path: s.dir, Err: err}
	}

	var (
		result  []Entry
		scratch *Entry
	)
	for _, e := range entries {
		if e.IsDir() || filestore.IsTemp(e.Name()) {
			continue
		}
		ref, ok := ParseName(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		entry := Entry{
			Ref:     ref,
			Path:    filepath.Join(s.dir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		if !ref.Positioned {
			scratch = &entry
			continue
		}
		result = append(result, entry)
	}

	sort.Slice(result, func(i, j int) bool {
		return filepath.Base(result[i].Path) < filepath.Base(result[j].Path)
	})
	if scratch != nil {
		result = append(result, *scratch)
	}
	return result, nil
}

// ParseName maps a snapshot file name back to the map it belongs to.
func ParseName(name string) (mapdoc.Ref, bool) {
	if name == unpositionedName {
		return mapdoc.Scratch, true
	}
	stem, ok := strings.CutSuffix(name, ext)
	if !ok {
		return mapdoc.Ref{}, false
	}
	pos, err := mapdoc.ParsePosition(stem)
	if err != nil {
		return mapdoc.Ref{}, false
	}
	return mapdoc.At(pos), true
}
