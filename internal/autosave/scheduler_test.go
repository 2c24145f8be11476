package autosave

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vovakirdan/tui-mapedit/internal/binfmt"
	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
	"github.com/vovakirdan/tui-mapedit/internal/notify"
	"github.com/vovakirdan/tui-mapedit/internal/recovery"
	"github.com/vovakirdan/tui-mapedit/internal/session"
)

var errDiskFull = errors.New("disk full")

type memWriter struct {
	files  map[mapdoc.Ref][]byte
	fail   bool
	writes int
}

func newMemWriter() *memWriter {
	return &memWriter{files: make(map[mapdoc.Ref][]byte)}
}

func (w *memWriter) WriteSnapshot(ref mapdoc.Ref, doc *mapdoc.Document) error {
	w.writes++
	if w.fail {
		return errDiskFull
	}
	data, err := mapdoc.Encode(doc)
	if err != nil {
		return err
	}
	w.files[ref] = data
	return nil
}

func paint(x, y int, tileset uint16) func(*mapdoc.Document) bool {
	return func(d *mapdoc.Document) bool {
		return d.SetTile(mapdoc.LayerGround, x, y, mapdoc.Tile{Tileset: tileset})
	}
}

func TestTickWritesSnapshotAfterDeadline(t *testing.T) {
	ref := mapdoc.At(mapdoc.P(2, 5, 0))
	state := session.New(ref, mapdoc.New(8, 8))
	store, err := recovery.Open(filepath.Join(t.TempDir(), "recovery"))
	require.NoError(t, err)

	var notes []string
	s := New(state, store, Options{
		Notifier: notify.Func(func(_ notify.Level, msg string) { notes = append(notes, msg) }),
	})

	_, err = state.Edit(paint(1, 1, 4))
	require.NoError(t, err)
	require.True(t, state.Dirty())

	require.Empty(t, s.Tick(30.0), "nothing is due before the deadline")
	require.False(t, store.SnapshotExists(ref))

	results := s.Tick(61.0)
	require.Len(t, results, 1)
	require.Equal(t, RecoveryTask, results[0].Task)
	require.NoError(t, results[0].Err)

	require.FileExists(t, filepath.Join(store.Dir(), "2_5_0.rec"))
	require.True(t, state.Autosaved())
	require.Equal(t, []mapdoc.Ref{ref}, state.Pending().Items())
	require.Equal(t, 121.0, s.Deadline())
	require.Equal(t, []string{"Autosaved map 2_5_0"}, notes)

	got, err := store.ReadSnapshot(ref)
	require.NoError(t, err)
	require.True(t, got.Equal(state.Doc()))
}

func TestTickSkipsCleanAutosavedAndExiting(t *testing.T) {
	state := session.New(mapdoc.At(mapdoc.P(0, 0, 0)), mapdoc.New(4, 4))
	w := newMemWriter()
	s := New(state, w, Options{})

	// Clean map
	require.Empty(t, s.Tick(100))
	require.Zero(t, w.writes)

	state.Edit(paint(0, 0, 1))
	require.Len(t, s.Tick(100), 1)
	require.Equal(t, 1, w.writes)

	// Already autosaved
	require.Empty(t, s.Tick(500))
	require.Equal(t, 1, w.writes)

	state.Edit(paint(1, 0, 1))
	state.BeginExit()
	require.Empty(t, s.Tick(1000))
	require.Equal(t, 1, w.writes, "exiting disables autosave writes")
}

func TestTickRetriesAfterFailure(t *testing.T) {
	ref := mapdoc.At(mapdoc.P(1, 2, 3))
	state := session.New(ref, mapdoc.New(4, 4))
	w := newMemWriter()
	w.fail = true

	var levels []notify.Level
	s := New(state, w, Options{
		Notifier: notify.Func(func(l notify.Level, _ string) { levels = append(levels, l) }),
	})
	state.Edit(paint(2, 2, 9))

	results := s.Tick(60)
	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Err, errDiskFull)
	require.False(t, state.Autosaved())
	require.Zero(t, state.Pending().Len())
	require.Equal(t, 60.0, s.Deadline(), "deadline only advances on success")

	w.fail = false
	results = s.Tick(60.016)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.True(t, state.Autosaved())
	require.Equal(t, []notify.Level{notify.Error, notify.Info}, levels)
}

func TestOversizedDocumentIsNotMarkedAutosaved(t *testing.T) {
	ref := mapdoc.At(mapdoc.P(4, 4, 0))
	state := session.New(ref, mapdoc.New(4, 4))
	store, err := recovery.Open(filepath.Join(t.TempDir(), "recovery"))
	require.NoError(t, err)
	s := New(state, store, Options{})

	_, err = state.Edit(func(d *mapdoc.Document) bool {
		d.Music = strings.Repeat("é", 40000)
		return true
	})
	require.NoError(t, err)

	results := s.Tick(61)
	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Err, binfmt.ErrTooLong)
	require.False(t, state.Autosaved())
	require.False(t, store.SnapshotExists(ref))
	require.Zero(t, state.Pending().Len())
}

func TestRetryDelay(t *testing.T) {
	state := session.New(mapdoc.Scratch, mapdoc.New(2, 2))
	w := newMemWriter()
	w.fail = true
	s := New(state, w, Options{Interval: 10 * time.Second, RetryDelay: 5 * time.Second})
	state.Edit(paint(0, 0, 1))

	s.Tick(10)
	require.Equal(t, 15.0, s.Deadline())
	require.Empty(t, s.Tick(12))
	require.Equal(t, 1, w.writes)
}

func TestScratchMapIsNotQueuedByTick(t *testing.T) {
	state := session.New(mapdoc.Scratch, mapdoc.New(2, 2))
	w := newMemWriter()
	s := New(state, w, Options{})
	state.Edit(paint(0, 0, 1))

	s.Tick(60)
	require.True(t, state.Autosaved())
	require.Contains(t, w.files, mapdoc.Scratch)
	require.Zero(t, state.Pending().Len())
}

func TestFlush(t *testing.T) {
	state := session.New(mapdoc.Scratch, mapdoc.New(2, 2))
	w := newMemWriter()
	s := New(state, w, Options{})

	require.NoError(t, s.Flush())
	require.Zero(t, w.writes, "clean map needs no flush")

	state.Edit(paint(1, 1, 2))
	require.NoError(t, s.Flush())
	require.Equal(t, 1, w.writes)
	require.True(t, state.Autosaved())
	require.Equal(t, []mapdoc.Ref{mapdoc.Scratch}, state.Pending().Items())

	// Autosaved maps are queued without another write
	require.NoError(t, s.Flush())
	require.Equal(t, 1, w.writes)

	state.Edit(paint(0, 1, 2))
	w.fail = true
	require.ErrorIs(t, s.Flush(), errDiskFull)
	require.False(t, state.Autosaved())
}

func TestEveryRunsExtraTasks(t *testing.T) {
	state := session.New(mapdoc.Scratch, mapdoc.New(1, 1))
	s := New(state, newMemWriter(), Options{})

	var runs []float64
	s.Every("scan", 2*time.Second, func(elapsed float64) (string, error) {
		runs = append(runs, elapsed)
		return "scanned", nil
	})

	for _, e := range []float64{0.5, 1.9, 2.0, 3.0, 4.1, 4.2} {
		for _, r := range s.Tick(e) {
			require.Equal(t, "scan", r.Task)
			require.Equal(t, "scanned", r.Message)
		}
	}
	require.Equal(t, []float64{2.0, 4.1}, runs)

	require.Panics(t, func() { s.Every("bad", 0, nil) })
}

func TestClosedSessionDoesNothing(t *testing.T) {
	state := session.New(mapdoc.Scratch, mapdoc.New(1, 1))
	w := newMemWriter()
	s := New(state, w, Options{})
	state.Edit(paint(0, 0, 1))
	state.Close()

	require.Nil(t, s.Tick(1000))
	require.NoError(t, s.Flush())
	require.Zero(t, w.writes)
}

// After any sequence of edits and ticks, an autosaved session's snapshot
// matches the live document byte for byte.
func TestSnapshotMatchesDocumentWhenAutosaved(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ref := mapdoc.At(mapdoc.P(
			rapid.Int32Range(-5, 5).Draw(t, "x"),
			rapid.Int32Range(-5, 5).Draw(t, "y"),
			rapid.Int32Range(0, 3).Draw(t, "group"),
		))
		state := session.New(ref, mapdoc.New(6, 6))
		w := newMemWriter()
		s := New(state, w, Options{Interval: 10 * time.Second})

		elapsed := 0.0
		lastWrite := -1
		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				x := rapid.IntRange(0, 5).Draw(t, "tx")
				y := rapid.IntRange(0, 5).Draw(t, "ty")
				tileset := rapid.Uint16Range(0, 3).Draw(t, "tileset")
				if changed, _ := state.Edit(paint(x, y, tileset)); changed && state.Autosaved() {
					t.Fatal("edit left autosaved set")
				}
			case 1:
				elapsed += rapid.Float64Range(0, 15).Draw(t, "dt")
				for _, r := range s.Tick(elapsed) {
					if r.Err == nil {
						lastWrite = i
					}
				}
			case 2:
				w.fail = !w.fail
			}

			if state.Autosaved() {
				snap, ok := w.files[ref]
				if !ok {
					t.Fatalf("autosaved without a snapshot (last write at step %d)", lastWrite)
				}
				want, err := mapdoc.Encode(state.Doc())
				if err != nil {
					t.Fatalf("encode at step %d: %v", i, err)
				}
				if !bytes.Equal(snap, want) {
					t.Fatalf("snapshot differs from document at step %d", i)
				}
			}
		}
	})
}
