package tui

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-mapedit/internal/autosave"
	"github.com/vovakirdan/tui-mapedit/internal/config"
	"github.com/vovakirdan/tui-mapedit/internal/core"
	"github.com/vovakirdan/tui-mapedit/internal/exitflow"
	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
	"github.com/vovakirdan/tui-mapedit/internal/notify"
	"github.com/vovakirdan/tui-mapedit/internal/preset"
	"github.com/vovakirdan/tui-mapedit/internal/recovery"
	"github.com/vovakirdan/tui-mapedit/internal/registry"
	"github.com/vovakirdan/tui-mapedit/internal/session"
	"github.com/vovakirdan/tui-mapedit/internal/storage"
)

// Rows below the map: status bar and help line.
const chromeRows = 2

// Tile picker bounds.
const (
	tilesetCount  = 16
	tilesetColumn = 8
	tilesetRows   = 8
)

// Names of the maintenance tasks the editor registers with the scheduler.
const (
	statusTask = "status"
	scanTask   = "scan"
)

// How often the status line checks for an expired message.
const statusPoll = 250 * time.Millisecond

// Deps wires the editor to its stores. Logger is optional.
type Deps struct {
	Config   config.Config
	Runtime  core.RuntimeConfig
	State    *session.State
	Recovery *recovery.Store
	Maps     *storage.Store
	Presets  preset.Catalogue
	Logger   *log.Logger
}

// Editor is the editing session behind the Bubble Tea model. It turns
// actions into document edits and drives autosave and the exit flow.
type Editor struct {
	cfg      config.Config
	rt       core.RuntimeConfig
	state    *session.State
	recovery *recovery.Store
	maps     *storage.Store
	presets  preset.Catalogue
	logger   *log.Logger

	committer *storage.Committer
	sched     *autosave.Scheduler
	flow      *exitflow.Flow
	status    *statusLine
	dialog    *confirmDialog
	notifier  notify.Notifier

	keys *KeyMapper
	help help.Model

	tools  []registry.Tool
	tool   int
	layer  mapdoc.Layer
	tile   mapdoc.Tile
	preset int

	cursorX, cursorY int
	view             core.Rect
	screen           *core.Screen
	orphans          int
}

// NewEditor wires the scheduler, the exit flow and the tools around deps.
func NewEditor(deps Deps) (*Editor, error) {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	if deps.Runtime.TickRate <= 0 {
		deps.Runtime = core.DefaultConfig()
	}

	e := &Editor{
		cfg:      deps.Config,
		rt:       deps.Runtime,
		state:    deps.State,
		recovery: deps.Recovery,
		maps:     deps.Maps,
		presets:  deps.Presets,
		logger:   deps.Logger,
		status:   newStatusLine(deps.Config.Autosave.StatusTTL),
		dialog:   newConfirmDialog(),
		keys:     NewKeyMapper(DefaultEditorKeyMap()),
		help:     help.New(),
		tile:     mapdoc.Tile{Tileset: 1},
	}
	e.notifier = e.status

	for _, info := range registry.List() {
		t, err := registry.Create(info.ID)
		if err != nil {
			return nil, err
		}
		if info.ID == deps.Config.Editor.DefaultTool {
			e.tool = len(e.tools)
		}
		e.tools = append(e.tools, t)
	}
	if len(e.tools) == 0 {
		return nil, errors.New("tui: no editing tools registered")
	}
	if !registry.Exists(deps.Config.Editor.DefaultTool) {
		return nil, fmt.Errorf("tui: unknown default tool %q", deps.Config.Editor.DefaultTool)
	}
	for l := range mapdoc.LayerCount {
		if mapdoc.Layer(l).String() == deps.Config.Editor.DefaultLayer {
			e.layer = mapdoc.Layer(l)
		}
	}

	e.committer = storage.NewCommitter(e.maps, e.recovery, e.state, e.logger)
	e.sched = autosave.New(e.state, e.recovery, autosave.Options{
		Interval:   deps.Config.Autosave.Interval,
		RetryDelay: deps.Config.Autosave.RetryDelay,
		Notifier:   e.notifier,
		Logger:     e.logger,
	})
	e.flow = exitflow.New(exitflow.Deps{
		State:     e.state,
		Recovery:  e.recovery,
		Committer: e.committer,
		Prompter:  e.dialog,
		Notifier:  e.notifier,
		Logger:    e.logger,
	})

	e.sched.Every(statusTask, statusPoll, func(elapsed float64) (string, error) {
		e.status.expire(elapsed)
		return "", nil
	})
	e.sched.Every(scanTask, deps.Config.Autosave.ScanInterval, e.scanRecovery)

	e.screen = core.NewScreen(e.rt.ScreenW, max(1, e.rt.ScreenH-chromeRows))
	e.view = core.NewRect(0, 0, e.screen.Width(), e.screen.Height())
	return e, nil
}

// State returns the session state.
func (e *Editor) State() *session.State { return e.state }

// Flow returns the exit flow.
func (e *Editor) Flow() *exitflow.Flow { return e.flow }

// Scheduler returns the autosave scheduler.
func (e *Editor) Scheduler() *autosave.Scheduler { return e.sched }

// Notify shows msg in the status line and logs it.
func (e *Editor) Notify(level notify.Level, msg string) {
	e.notifier.Notify(level, msg)
}

// Open makes ref the open map. With restore, an existing recovery snapshot
// wins over primary storage and the map comes back modified and queued for
// the exit confirmation. Maps found in neither start empty.
func (e *Editor) Open(ref mapdoc.Ref, restore bool) error {
	if restore && e.recovery.SnapshotExists(ref) {
		doc, err := e.recovery.ReadSnapshot(ref)
		if err == nil {
			if err := e.state.Restore(ref, doc); err != nil {
				return err
			}
			e.opened()
			e.Notify(notify.Warn, fmt.Sprintf("Restored map %s from recovery data", ref))
			return nil
		}
		e.logger.Warn("unreadable recovery snapshot, opening stored map", "map", ref, "err", err)
	}

	doc, err := e.maps.LoadMap(ref)
	if err != nil {
		return err
	}
	if doc == nil {
		doc = mapdoc.New(uint16(e.cfg.Editor.MapWidth), uint16(e.cfg.Editor.MapHeight))
	}
	if err := e.state.Open(ref, doc); err != nil {
		return err
	}
	e.opened()
	e.logger.Debug("map opened", "map", ref, "size", fmt.Sprintf("%dx%d", doc.Width, doc.Height))
	return nil
}

func (e *Editor) opened() {
	doc := e.state.Doc()
	e.cursorX = core.Clamp(e.cursorX, 0, max(0, int(doc.Width)-1))
	e.cursorY = core.Clamp(e.cursorY, 0, max(0, int(doc.Height)-1))
	e.follow()
}

func (e *Editor) follow() {
	doc := e.state.Doc()
	e.view = e.view.Follow(e.cursorX, e.cursorY, int(doc.Width), int(doc.Height))
}

// Resize adapts the map viewport to a terminal of width x height.
func (e *Editor) Resize(width, height int) {
	e.rt.ScreenW, e.rt.ScreenH = width, height
	e.screen.Resize(width, max(1, height-chromeRows))
	e.view.W, e.view.H = e.screen.Width(), e.screen.Height()
	e.help.Width = width
	e.follow()
}

// Tick advances the session clock to elapsed seconds and runs due tasks.
func (e *Editor) Tick(elapsed float64) []autosave.Result {
	e.status.advance(elapsed)
	return e.sched.Tick(elapsed)
}

// Do performs an editor action and reports whether the program should
// quit. Actions are ignored while a confirmation is pending.
func (e *Editor) Do(a core.Action) (quit bool) {
	if e.flow.Phase() != exitflow.Idle {
		return e.flow.Phase() == exitflow.Exited
	}

	switch a {
	case core.ActionUp:
		e.moveCursor(0, -1)
	case core.ActionDown:
		e.moveCursor(0, 1)
	case core.ActionLeft:
		e.moveCursor(-1, 0)
	case core.ActionRight:
		e.moveCursor(1, 0)
	case core.ActionApply:
		e.applyTool()
	case core.ActionNextTool:
		e.tool = (e.tool + 1) % len(e.tools)
	case core.ActionNextTile:
		e.stepTile(1)
	case core.ActionPrevTile:
		e.stepTile(-1)
	case core.ActionNextTileset:
		e.tile.Tileset = e.tile.Tileset%tilesetCount + 1
	case core.ActionNextLayer:
		e.layer = mapdoc.Layer((int(e.layer) + 1) % mapdoc.LayerCount)
	case core.ActionNextPreset:
		e.preset = (e.preset + 1) % preset.SlotCount
		e.Notify(notify.Info, fmt.Sprintf("Preset %d: %s", e.preset, e.presets[e.preset].Name))
	case core.ActionSave:
		e.Save()
	case core.ActionPrevMap:
		e.SwitchMap(-1)
	case core.ActionNextMap:
		e.SwitchMap(1)
	case core.ActionHelp:
		e.help.ShowAll = !e.help.ShowAll
	case core.ActionQuit:
		return e.RequestExit()
	}
	return false
}

func (e *Editor) moveCursor(dx, dy int) {
	doc := e.state.Doc()
	e.cursorX = core.Clamp(e.cursorX+dx, 0, int(doc.Width)-1)
	e.cursorY = core.Clamp(e.cursorY+dy, 0, int(doc.Height)-1)
	e.follow()
}

func (e *Editor) stepTile(delta int) {
	i := core.Wrap(int(e.tile.Y)*tilesetColumn+int(e.tile.X)+delta, tilesetColumn*tilesetRows)
	e.tile.X = uint16(i % tilesetColumn)
	e.tile.Y = uint16(i / tilesetColumn)
}

func (e *Editor) brush() registry.Brush {
	return registry.Brush{Layer: e.layer, Tile: e.tile, Preset: e.presets[e.preset]}
}

func (e *Editor) applyTool() {
	t := e.tools[e.tool]
	b := e.brush()
	if _, err := e.state.Edit(func(doc *mapdoc.Document) bool {
		return t.Apply(doc, e.cursorX, e.cursorY, b)
	}); err != nil {
		e.logger.Warn("edit rejected", "tool", t.ID(), "err", err)
	}
}

// Save commits the open map to primary storage and clears its snapshot.
func (e *Editor) Save() {
	ref := e.state.Current()
	if err := e.committer.SaveAndClear(ref); err != nil {
		e.logger.Error("save failed", "map", ref, "err", err)
		e.Notify(notify.Error, fmt.Sprintf("Saving map %s failed: %v", ref, err))
		return
	}
	e.Notify(notify.Info, fmt.Sprintf("Saved map %s", ref))
}

// SwitchMap opens the neighbouring map dx steps east. The open map's
// edits are flushed to recovery first; the switch is cancelled if that
// fails.
func (e *Editor) SwitchMap(dx int32) {
	pos, ok := e.state.Current().Position()
	if !ok {
		e.Notify(notify.Warn, "The scratch map has no neighbours")
		return
	}
	if e.sched.Flush() != nil {
		return
	}
	target := mapdoc.At(pos.Offset(dx, 0))
	if err := e.Open(target, true); err != nil {
		e.logger.Error("cannot open map", "map", target, "err", err)
		e.Notify(notify.Error, fmt.Sprintf("Cannot open map %s: %v", target, err))
	}
}

// RequestExit starts the exit flow and reports whether the program can
// quit right away.
func (e *Editor) RequestExit() bool {
	if e.flow.RequestExit() != nil {
		return false
	}
	return e.flow.Phase() == exitflow.Exited
}

// Decide answers the open confirmation and reports whether the flow is
// finished.
func (e *Editor) Decide(save, repeat bool) bool {
	e.dialog.hide()
	// Failed maps are logged and reported by the flow itself.
	_ = e.flow.Decide(save, repeat)
	return e.flow.Phase() == exitflow.Exited
}

// scanRecovery counts snapshots on disk that this session does not track,
// such as those left by another editor instance.
func (e *Editor) scanRecovery(float64) (string, error) {
	entries, err := e.recovery.List()
	if err != nil {
		return "", err
	}
	n := 0
	for _, entry := range entries {
		if entry.Ref == e.state.Current() || e.state.Pending().Contains(entry.Ref) {
			continue
		}
		n++
	}
	if n == e.orphans {
		return "", nil
	}
	e.orphans = n
	if n == 0 {
		return "", nil
	}
	msg := fmt.Sprintf("%d recovery snapshot(s) from other sessions", n)
	e.logger.Info("untracked recovery snapshots", "count", n)
	e.Notify(notify.Warn, msg)
	return msg, nil
}

func (e *Editor) statusInfo() statusInfo {
	level, msg := e.status.message()
	info := statusInfo{
		Map:       e.state.Current().String(),
		Tool:      e.tools[e.tool].Title(),
		Layer:     e.layer.String(),
		Tile:      e.tile,
		Dirty:     e.state.Dirty(),
		Autosaved: e.state.Autosaved(),
		Pending:   e.state.Pending().Len(),
		Level:     level,
		Message:   msg,
	}
	if e.tools[e.tool].ID() == "stamp" {
		info.Preset = fmt.Sprintf("%d %s", e.preset, e.presets[e.preset].Name)
	}
	return info
}
