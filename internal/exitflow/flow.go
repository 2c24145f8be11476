// Package exitflow runs the "unsaved changes" confirmation sequence at exit.
//
// The flow is a pull-based state machine: the host calls RequestExit once,
// then each frame asks Current for the map awaiting a decision and feeds
// the user's answer back through Decide until Phase reports Exited.
package exitflow

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
	"github.com/vovakirdan/tui-mapedit/internal/notify"
	"github.com/vovakirdan/tui-mapedit/internal/session"
)

var (
	// ErrNotIdle is returned by RequestExit once the flow has started.
	ErrNotIdle = errors.New("exitflow: exit already requested")
	// ErrNoRequest is returned by Decide when no map awaits a decision.
	ErrNoRequest = errors.New("exitflow: no pending confirmation")
)

// Phase is the state of the flow.
type Phase int

const (
	Idle Phase = iota
	FlushingCurrent
	AwaitingDecision
	Exited
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case FlushingCurrent:
		return "flushing"
	case AwaitingDecision:
		return "awaiting-decision"
	case Exited:
		return "exited"
	default:
		return "unknown"
	}
}

// Request asks the user what to do with one map's unsaved edits.
type Request struct {
	Ref mapdoc.Ref
	// HasMore is true when other maps wait behind this one; only then is
	// "apply to all remaining" offered.
	HasMore bool
	// Remaining counts the maps behind this one.
	Remaining int
}

// Prompter shows confirmation requests. It must eventually lead to exactly
// one Decide call per request.
type Prompter interface {
	Prompt(req Request)
}

// Committer makes a map's edits permanent and clears its recovery snapshot.
type Committer interface {
	SaveAndClear(ref mapdoc.Ref) error
}

// Recovery is the part of the recovery store the flow uses.
type Recovery interface {
	WriteSnapshot(ref mapdoc.Ref, doc *mapdoc.Document) error
	DeleteSnapshot(ref mapdoc.Ref) error
}

// Deps wires the flow to its collaborators. Prompter, Notifier and Logger
// are optional.
type Deps struct {
	State     *session.State
	Recovery  Recovery
	Committer Committer
	Prompter  Prompter
	Notifier  notify.Notifier
	Logger    *log.Logger
}

// Flow is the exit confirmation state machine.
type Flow struct {
	deps    Deps
	phase   Phase
	current Request
}

// New creates an idle flow.
func New(deps Deps) *Flow {
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	return &Flow{deps: deps}
}

// Phase returns the current state.
func (f *Flow) Phase() Phase {
	return f.phase
}

// Current returns the request awaiting a decision, if any.
func (f *Flow) Current() (Request, bool) {
	if f.phase != AwaitingDecision {
		return Request{}, false
	}
	return f.current, true
}

// RequestExit starts the exit sequence. Unsaved edits of the open map are
// flushed to a recovery snapshot first; if that write fails the flow stays
// Idle and the error is returned so no edits are lost.
func (f *Flow) RequestExit() error {
	if f.phase != Idle {
		return ErrNotIdle
	}

	st := f.deps.State
	if st.Dirty() {
		ref := st.Current()
		if !st.Autosaved() {
			if err := f.deps.Recovery.WriteSnapshot(ref, st.Doc()); err != nil {
				f.deps.Logger.Error("exit cancelled, recovery flush failed", "map", ref, "err", err)
				f.deps.Notifier.Notify(notify.Error, fmt.Sprintf("Could not save recovery data for map %s", ref))
				return fmt.Errorf("exitflow: flush %s: %w", ref, err)
			}
			st.MarkSnapshotWritten()
		}
		st.MarkPending(ref)
	}

	st.BeginExit()
	f.phase = FlushingCurrent
	f.deps.Logger.Info("exit requested", "pending", st.Pending().Len())
	f.next()
	return nil
}

// Decide applies the user's answer to the map in Current. With repeat the
// same answer is applied to every remaining map as well; repeat is ignored
// when the request did not offer it. Failures are returned joined, but a
// map whose save or discard failed is not asked about again.
func (f *Flow) Decide(save, repeat bool) error {
	if f.phase != AwaitingDecision {
		return ErrNoRequest
	}

	targets := []mapdoc.Ref{f.current.Ref}
	if repeat && f.current.HasMore {
		targets = f.deps.State.Pending().Items()
	}

	var errs []error
	for _, ref := range targets {
		if err := f.apply(ref, save); err != nil {
			errs = append(errs, err)
		}
		f.deps.State.Resolve(ref)
	}

	f.next()
	return errors.Join(errs...)
}

func (f *Flow) apply(ref mapdoc.Ref, save bool) error {
	var err error
	if save {
		if err = f.deps.Committer.SaveAndClear(ref); err != nil {
			err = fmt.Errorf("exitflow: save %s: %w", ref, err)
		}
	} else if err = f.deps.Recovery.DeleteSnapshot(ref); err != nil {
		err = fmt.Errorf("exitflow: discard %s: %w", ref, err)
	}

	if err != nil {
		f.deps.Logger.Error("exit decision failed", "map", ref, "save", save, "err", err)
		f.deps.Notifier.Notify(notify.Error, err.Error())
		return err
	}
	f.deps.Logger.Info("exit decision applied", "map", ref, "save", save)
	return nil
}

// next shows the oldest pending map, or finishes the flow when none remain.
func (f *Flow) next() {
	pending := f.deps.State.Pending()
	front, ok := pending.Front()
	if !ok {
		f.phase = Exited
		f.current = Request{}
		f.deps.State.Close()
		return
	}

	remaining := pending.Len() - 1
	f.current = Request{Ref: front, HasMore: remaining > 0, Remaining: remaining}
	f.phase = AwaitingDecision
	if f.deps.Prompter != nil {
		f.deps.Prompter.Prompt(f.current)
	}
}
