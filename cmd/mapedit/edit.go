package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-mapedit/internal/core"
	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
	"github.com/vovakirdan/tui-mapedit/internal/notify"
	"github.com/vovakirdan/tui-mapedit/internal/platform/tui"
	"github.com/vovakirdan/tui-mapedit/internal/preset"
	"github.com/vovakirdan/tui-mapedit/internal/session"
)

var flagFresh bool

var editCmd = &cobra.Command{
	Use:   "edit [x y group]",
	Short: "Open a map in the editor",
	Long: `Open the map at the given position, or the scratch map when no
position is given. If the map has a recovery snapshot from an earlier
session it is opened instead of the stored version.

Recovery snapshots of other maps are queued, so the exit dialog offers
to save or discard them too.

Controls:
  Arrows/hjkl  - Move cursor
  Space/Enter  - Apply tool
  Tab          - Next tool
  L            - Next layer
  , . t        - Previous/next tile, next tileset
  p            - Next stamp preset
  [ ]          - Open map to the west/east
  Ctrl+S       - Save
  ?            - Toggle help
  Q/Ctrl+C     - Quit

Negative coordinates must follow --, otherwise they are read as flags.

Examples:
  mapedit edit
  mapedit edit 2 5 0
  mapedit edit 2_5_0 --fresh
  mapedit edit --fresh -- -1 2 0`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("accepts 0, 1 or 3 args, received %d", len(args))
		}
		return nil
	},
	Run: runEdit,
}

func init() {
	editCmd.Flags().BoolVar(&flagFresh, "fresh", false, "Delete the map's recovery snapshot and open the stored version")
}

func runEdit(cmd *cobra.Command, args []string) {
	ref, err := parseRef(args)
	if err != nil {
		exitf("%v", err)
	}
	editMap(ref)
}

// editMap runs an editing session on ref.
func editMap(ref mapdoc.Ref) {
	a := setup()
	defer a.close()

	maps := a.openMaps()
	defer maps.Close()
	rec := a.openRecovery()

	presetStore, err := preset.Open(a.cfg.Paths.PresetDir)
	if err != nil {
		exitf("opening presets: %v", err)
	}
	presets, err := presetStore.LoadAll()
	if err != nil {
		exitf("loading presets: %v", err)
	}

	if flagFresh {
		if err := rec.DeleteSnapshot(ref); err != nil {
			exitf("discarding recovery snapshot: %v", err)
		}
		a.logger.Info("recovery snapshot discarded", "map", ref)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	state := session.New(mapdoc.Scratch, mapdoc.New(uint16(a.cfg.Editor.MapWidth), uint16(a.cfg.Editor.MapHeight)))
	ed, err := tui.NewEditor(tui.Deps{
		Config: a.cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: a.cfg.Editor.FPS,
		},
		State:    state,
		Recovery: rec,
		Maps:     maps,
		Presets:  presets,
		Logger:   a.logger,
	})
	if err != nil {
		exitf("%v", err)
	}
	if err := ed.Open(ref, true); err != nil {
		exitf("opening map %s: %v", ref, err)
	}

	// Snapshots left by a crashed session join the exit confirmation
	entries, err := rec.List()
	if err != nil {
		a.logger.Warn("cannot scan recovery directory", "err", err)
	}
	orphans := 0
	for _, e := range entries {
		if e.Ref == ref {
			continue
		}
		state.MarkPending(e.Ref)
		orphans++
	}
	if orphans > 0 {
		ed.Notify(notify.Warn, fmt.Sprintf("%d other map(s) have recovery data from an earlier session", orphans))
	}

	a.logger.Info("session started", "session", state.ID(), "map", ref, "queued", orphans)
	if err := tui.Run(ed); err != nil {
		exitf("running editor: %v", err)
	}
	a.logger.Info("session ended", "session", state.ID())
}
