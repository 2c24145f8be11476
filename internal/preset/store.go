package preset

import (
	"fmt"
	"path/filepath"

	"github.com/vovakirdan/tui-mapedit/internal/filestore"
)

// SlotCount is the fixed size of the preset catalogue.
const SlotCount = 100

// Catalogue holds every preset slot in index order.
type Catalogue [SlotCount]Data

// Store reads and writes preset slot files in a single directory.
type Store struct {
	dir    string
	writer *filestore.Writer
}

// Open creates the preset directory if needed and returns a store over it.
func Open(dir string) (*Store, error) {
	dir, err := filestore.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}
	return &Store{dir: dir, writer: filestore.NewWriter(0o644)}, nil
}

// Dir returns the preset directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing slot index.
//
// Precondition: 0 <= index < SlotCount.
func (s *Store) Path(index int) string {
	checkIndex(index)
	return filepath.Join(s.dir, fmt.Sprintf("preset_%d.bin", index))
}

// LoadAll reads the whole catalogue. Missing slots are written with
// Default() before being returned, so the next load finds every file.
// A slot that fails to decode aborts the load: a partial catalogue would
// shift slot indices used elsewhere.
func (s *Store) LoadAll() (Catalogue, error) {
	var cat Catalogue
	for i := range cat {
		d, err := s.loadOrCreate(i)
		if err != nil {
			return Catalogue{}, err
		}
		cat[i] = d
	}
	return cat, nil
}

// Load reads a single slot, creating it with Default() if missing.
//
// Precondition: 0 <= index < SlotCount.
func (s *Store) Load(index int) (Data, error) {
	checkIndex(index)
	return s.loadOrCreate(index)
}

func (s *Store) loadOrCreate(index int) (Data, error) {
	path := s.Path(index)
	if !filestore.Exists(path) {
		d := Default()
		if err := s.SaveSlot(index, d); err != nil {
			return Data{}, err
		}
		return d, nil
	}

	raw, err := filestore.ReadFile(path)
	if err != nil {
		return Data{}, err
	}
	var d Data
	if err := d.UnmarshalBinary(raw); err != nil {
		return Data{}, fmt.Errorf("slot %d: %w", index, err)
	}
	return d, nil
}

// SaveSlot encodes d and atomically replaces the slot's file.
//
// Precondition: 0 <= index < SlotCount.
func (s *Store) SaveSlot(index int, d Data) error {
	checkIndex(index)
	raw, err := d.MarshalBinary()
	if err != nil {
		return err
	}
	return s.writer.WriteFile(s.Path(index), raw)
}

// ResetSlot restores a slot to Default(). Slots are never removed.
//
// Precondition: 0 <= index < SlotCount.
func (s *Store) ResetSlot(index int) error {
	return s.SaveSlot(index, Default())
}

func checkIndex(index int) {
	if index < 0 || index >= SlotCount {
		panic(fmt.Sprintf("preset: slot index %d out of range [0, %d)", index, SlotCount))
	}
}
