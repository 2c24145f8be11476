// mapedit is a terminal tilemap editor with crash recovery.
//
// Usage:
//
//	mapedit edit [x y group]      - Edit a map (the scratch map without a position)
//	mapedit list                  - List stored maps and pending recovery data
//	mapedit browse                - Pick a map to edit from a table
//	mapedit tools                 - List editing tools
//	mapedit import <dir>          - Import YAML map files into storage
//	mapedit recover <cmd>         - Inspect, restore or discard recovery snapshots
//	mapedit presets <cmd>         - Inspect or reset preset slots
//
// Global flags:
//
//	--config <path>  - Config file (default: ~/.mapedit/config.yaml)
//	--data <dir>     - Data directory holding maps.db, recovery/ and presets/
//	--fps <rate>     - Override the frame rate from the config
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-mapedit/internal/config"
	"github.com/vovakirdan/tui-mapedit/internal/logging"
	"github.com/vovakirdan/tui-mapedit/internal/recovery"
	"github.com/vovakirdan/tui-mapedit/internal/storage"

	// Import tools to register them
	_ "github.com/vovakirdan/tui-mapedit/internal/tools"
)

var (
	// Global flags
	flagConfig  string
	flagDataDir string
	flagFPS     int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mapedit",
	Short: "mapedit - Edit tilemaps in your terminal",
	Long: `mapedit is a terminal tilemap editor. Unsaved edits are written to
recovery snapshots periodically, so a crash never costs more than one
autosave interval. On exit every map with unsaved edits is offered for
saving or discarding.

Available commands:
  edit     - Open a map in the editor
  list     - Show stored maps and recovery data
  browse   - Pick a map from a table
  tools    - Show the editing tools
  import   - Import YAML map files
  recover  - Manage recovery snapshots
  presets  - Manage preset slots

Examples:
  mapedit edit 2 5 0
  mapedit import ./maps
  mapedit recover list
  mapedit presets reset 12`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data", "", "Data directory (overrides paths.data_dir)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Frame rate (0 = use config)")

	rootCmd.SetFlagErrorFunc(flagError)

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(presetsCmd)
}

// exitf prints an error and exits.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// app bundles what every command needs.
type app struct {
	cfg    config.Config
	logger *log.Logger
	closer io.Closer
}

// setup loads the configuration, applies the global flags and opens the log.
func setup() *app {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		exitf("%v", err)
	}
	if flagDataDir != "" {
		cfg.Paths.DataDir = flagDataDir
		cfg.Paths.Database, cfg.Paths.RecoveryDir, cfg.Paths.PresetDir = "", "", ""
		if err := cfg.Resolve(); err != nil {
			exitf("%v", err)
		}
	}
	if flagFPS > 0 {
		cfg.Editor.FPS = flagFPS
	}
	if err := cfg.Validate(); err != nil {
		exitf("%v", err)
	}

	logger, closer, err := logging.New(cfg.Logging, "mapedit")
	if err != nil {
		exitf("%v", err)
	}
	return &app{cfg: cfg, logger: logger, closer: closer}
}

func (a *app) close() {
	//nolint:errcheck // Best-effort, the process is exiting
	a.closer.Close()
}

func (a *app) openMaps() *storage.Store {
	store, err := storage.Open(a.cfg.Paths.Database)
	if err != nil {
		exitf("opening map database: %v", err)
	}
	return store
}

func (a *app) openRecovery() *recovery.Store {
	rec, err := recovery.Open(a.cfg.Paths.RecoveryDir)
	if err != nil {
		exitf("opening recovery directory: %v", err)
	}
	return rec
}
