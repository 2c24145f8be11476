// Package session holds the in-memory state of the single active editing
// session: the open map, its dirty/autosaved flags and the maps whose
// recovery snapshots still await a save-or-discard decision.
//
// State is owned by the editor loop and is not safe for concurrent use.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
)

// ErrSessionClosed is returned by mutations after the exit flow finished.
var ErrSessionClosed = errors.New("session: closed")

// State is the editor session record.
//
// Invariants:
//   - Autosaved implies a recovery snapshot identical to Doc exists on disk.
//   - Any change through Edit clears Autosaved and sets Dirty.
//   - Pending grows only through MarkSnapshotWritten/MarkPending and
//     shrinks only through Resolve.
type State struct {
	id        uuid.UUID
	startedAt time.Time

	current   mapdoc.Ref
	doc       *mapdoc.Document
	dirty     bool
	autosaved bool
	exiting   bool
	closed    bool

	pending *PendingSet
}

// New starts a session with ref open and no unsaved changes.
func New(ref mapdoc.Ref, doc *mapdoc.Document) *State {
	return &State{
		id:        uuid.New(),
		startedAt: time.Now(),
		current:   ref,
		doc:       doc,
		pending:   NewPendingSet(),
	}
}

// ID identifies this session; recorded with permanent saves.
func (s *State) ID() uuid.UUID { return s.id }

// StartedAt returns when the session began.
func (s *State) StartedAt() time.Time { return s.startedAt }

// Current returns the open map.
func (s *State) Current() mapdoc.Ref { return s.current }

// Doc returns the live document. Callers must mutate it only through Edit.
func (s *State) Doc() *mapdoc.Document { return s.doc }

// Dirty reports edits not yet committed to primary storage.
func (s *State) Dirty() bool { return s.dirty }

// Autosaved reports that the current dirty state has a matching snapshot.
func (s *State) Autosaved() bool { return s.autosaved }

// Exiting reports that the exit flow has begun.
func (s *State) Exiting() bool { return s.exiting }

// Closed reports that the exit flow has finished.
func (s *State) Closed() bool { return s.closed }

// Pending returns the maps awaiting a save-or-discard decision.
func (s *State) Pending() *PendingSet { return s.pending }

// NeedsSnapshot reports whether the open document has edits that are not
// yet covered by a recovery snapshot.
func (s *State) NeedsSnapshot() bool {
	return s.dirty && !s.autosaved
}

// Edit applies fn to the live document. fn reports whether it changed
// anything; a change marks the session dirty and invalidates the autosave.
func (s *State) Edit(fn func(doc *mapdoc.Document) bool) (bool, error) {
	if s.closed {
		return false, ErrSessionClosed
	}
	if !fn(s.doc) {
		return false, nil
	}
	s.dirty = true
	s.autosaved = false
	return true, nil
}

// Open replaces the open map. The caller must have flushed any unsaved
// edits of the previous map to a snapshot first.
func (s *State) Open(ref mapdoc.Ref, doc *mapdoc.Document) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.current = ref
	s.doc = doc
	s.dirty = false
	s.autosaved = false
	return nil
}

// Restore opens a map from its recovery snapshot: the document carries
// unsaved edits that already match the snapshot on disk.
func (s *State) Restore(ref mapdoc.Ref, doc *mapdoc.Document) error {
	if err := s.Open(ref, doc); err != nil {
		return err
	}
	s.dirty = true
	s.autosaved = true
	s.pending.Add(ref)
	return nil
}

// MarkSnapshotWritten records a successful recovery write of the open
// document. Positioned maps join the pending set.
func (s *State) MarkSnapshotWritten() {
	if s.closed {
		return
	}
	s.autosaved = true
	if s.current.Positioned {
		s.pending.Add(s.current)
	}
}

// MarkPending adds ref to the pending set. Used by the exit flow, which
// also tracks the unpositioned scratch map, and at startup for snapshots
// left by a previous session.
func (s *State) MarkPending(ref mapdoc.Ref) {
	if s.closed {
		return
	}
	s.pending.Add(ref)
}

// Resolve removes ref from the pending set after a save-or-discard decision.
func (s *State) Resolve(ref mapdoc.Ref) {
	if s.closed {
		return
	}
	s.pending.Remove(ref)
}

// MarkCommitted records a permanent save of the open map.
func (s *State) MarkCommitted() {
	if s.closed {
		return
	}
	s.dirty = false
	s.autosaved = false
	s.pending.Remove(s.current)
}

// BeginExit disables autosave writes for the rest of the session.
func (s *State) BeginExit() {
	if s.closed {
		return
	}
	s.exiting = true
}

// Close ends the session. Later Edit and Open calls fail with
// ErrSessionClosed; the Mark*, Resolve and BeginExit calls become no-ops.
func (s *State) Close() {
	s.closed = true
}
