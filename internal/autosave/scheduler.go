// Package autosave drives periodic maintenance from the editor frame loop.
// The scheduler is a function of elapsed session time: the host calls Tick
// once per frame and every due task runs synchronously on that call.
package autosave

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
	"github.com/vovakirdan/tui-mapedit/internal/notify"
	"github.com/vovakirdan/tui-mapedit/internal/session"
)

// RecoveryTask is the name of the built-in snapshot task.
const RecoveryTask = "recovery"

// DefaultInterval is the period between recovery snapshots.
const DefaultInterval = 60 * time.Second

// Writer persists recovery snapshots. recovery.Store satisfies it.
type Writer interface {
	WriteSnapshot(ref mapdoc.Ref, doc *mapdoc.Document) error
}

// TaskFunc is a maintenance task. The returned message, if any, is
// reported in the task's Result.
type TaskFunc func(elapsed float64) (string, error)

// Result reports one task run.
type Result struct {
	Task    string
	Message string
	Err     error
}

// Options tunes the scheduler. Zero values take defaults.
type Options struct {
	// Interval between recovery snapshots.
	Interval time.Duration
	// RetryDelay postpones the next attempt after a failed snapshot write.
	// Zero retries on the next tick.
	RetryDelay time.Duration
	Notifier   notify.Notifier
	Logger     *log.Logger
}

type task struct {
	name     string
	period   float64
	deadline float64
	fn       TaskFunc
}

// Scheduler holds one deadline per maintenance task.
type Scheduler struct {
	state    *session.State
	writer   Writer
	notifier notify.Notifier
	logger   *log.Logger

	interval   float64
	retryDelay float64
	deadline   float64

	tasks []*task
}

// New creates a scheduler for state. The first recovery write is due one
// interval into the session.
func New(state *session.State, writer Writer, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	interval := opts.Interval.Seconds()
	return &Scheduler{
		state:      state,
		writer:     writer,
		notifier:   opts.Notifier,
		logger:     opts.Logger,
		interval:   interval,
		retryDelay: opts.RetryDelay.Seconds(),
		deadline:   interval,
	}
}

// Every registers an extra maintenance task. It first runs one period into
// the session, then every period after its previous run.
func (s *Scheduler) Every(name string, period time.Duration, fn TaskFunc) {
	if period <= 0 {
		panic(fmt.Sprintf("autosave: task %q needs a positive period", name))
	}
	p := period.Seconds()
	s.tasks = append(s.tasks, &task{name: name, period: p, deadline: p, fn: fn})
}

// Deadline returns the elapsed time at which the next recovery write is due.
func (s *Scheduler) Deadline() float64 {
	return s.deadline
}

// Tick runs every task that is due at elapsed seconds into the session and
// returns what ran. It never blocks beyond the tasks themselves.
func (s *Scheduler) Tick(elapsed float64) []Result {
	if s.state.Closed() {
		return nil
	}

	var results []Result
	if r, ok := s.recover(elapsed); ok {
		results = append(results, r)
	}
	for _, t := range s.tasks {
		if elapsed < t.deadline {
			continue
		}
		t.deadline = elapsed + t.period
		msg, err := t.fn(elapsed)
		if err != nil {
			s.logger.Warn("maintenance task failed", "task", t.name, "err", err)
		}
		results = append(results, Result{Task: t.name, Message: msg, Err: err})
	}
	return results
}

// recover writes a snapshot of the open map when the deadline has passed
// and the document has edits no snapshot covers yet.
func (s *Scheduler) recover(elapsed float64) (Result, bool) {
	if elapsed < s.deadline || !s.state.NeedsSnapshot() || s.state.Exiting() {
		return Result{}, false
	}

	ref := s.state.Current()
	if err := s.writer.WriteSnapshot(ref, s.state.Doc()); err != nil {
		// State stays untouched so a later tick retries.
		if s.retryDelay > 0 {
			s.deadline = elapsed + s.retryDelay
		}
		msg := fmt.Sprintf("Autosave of map %s failed", ref)
		s.logger.Error("recovery snapshot failed", "map", ref, "err", err)
		s.notifier.Notify(notify.Error, msg)
		return Result{Task: RecoveryTask, Message: msg, Err: err}, true
	}

	s.state.MarkSnapshotWritten()
	s.deadline = elapsed + s.interval
	msg := fmt.Sprintf("Autosaved map %s", ref)
	s.logger.Debug("recovery snapshot written", "map", ref, "next", s.deadline)
	s.notifier.Notify(notify.Info, msg)
	return Result{Task: RecoveryTask, Message: msg}, true
}

// Flush makes sure the open map's edits are covered by a snapshot and
// queued for the exit confirmation, regardless of the deadline. The host
// calls it before switching to another map.
func (s *Scheduler) Flush() error {
	if s.state.Closed() || !s.state.Dirty() {
		return nil
	}
	ref := s.state.Current()
	if !s.state.Autosaved() {
		if err := s.writer.WriteSnapshot(ref, s.state.Doc()); err != nil {
			s.logger.Error("recovery flush failed", "map", ref, "err", err)
			s.notifier.Notify(notify.Error, fmt.Sprintf("Autosave of map %s failed", ref))
			return fmt.Errorf("autosave: flush %s: %w", ref, err)
		}
		s.state.MarkSnapshotWritten()
	}
	s.state.MarkPending(ref)
	return nil
}
