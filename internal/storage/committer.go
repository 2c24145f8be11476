package storage

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
	"github.com/vovakirdan/tui-mapedit/internal/session"
)

// Snapshots is the part of the recovery store a permanent save needs.
type Snapshots interface {
	ReadSnapshot(ref mapdoc.Ref) (*mapdoc.Document, error)
	DeleteSnapshot(ref mapdoc.Ref) error
}

// Committer performs permanent saves for an editing session: it writes a
// map to primary storage and then clears its recovery snapshot.
type Committer struct {
	store     *Store
	snapshots Snapshots
	state     *session.State
	logger    *log.Logger
}

// NewCommitter wires a committer. logger may be nil.
func NewCommitter(store *Store, snapshots Snapshots, state *session.State, logger *log.Logger) *Committer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Committer{store: store, snapshots: snapshots, state: state, logger: logger}
}

// SaveAndClear commits ref to primary storage. The open map is saved from
// the live document; any other map from its recovery snapshot. The
// snapshot is deleted only after the save succeeded.
func (c *Committer) SaveAndClear(ref mapdoc.Ref) error {
	current := ref == c.state.Current()

	var doc *mapdoc.Document
	if current {
		doc = c.state.Doc()
	} else {
		var err error
		if doc, err = c.snapshots.ReadSnapshot(ref); err != nil {
			return fmt.Errorf("storage: cannot read recovery snapshot for %s: %w", ref, err)
		}
	}

	if err := c.store.SaveMap(ref, doc, c.state.ID().String()); err != nil {
		return err
	}
	if current {
		c.state.MarkCommitted()
	}
	c.logger.Info("map saved", "map", ref, "size", fmt.Sprintf("%dx%d", doc.Width, doc.Height))

	if err := c.snapshots.DeleteSnapshot(ref); err != nil {
		return fmt.Errorf("storage: saved %s but cannot clear recovery snapshot: %w", ref, err)
	}
	return nil
}
