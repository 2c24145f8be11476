package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-mapedit/internal/platform/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Pick a map to edit",
	Long: `Shows stored maps and recovery snapshots in a table and opens the
selected one in the editor.

Controls:
  Up/Down   - Move
  Tab       - Filter by group
  Enter     - Edit the selected map
  Q/Esc     - Quit`,
	Args: cobra.NoArgs,
	Run:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) {
	a := setup()
	maps := a.openMaps()
	entries, err := maps.ListMaps()
	maps.Close()
	if err != nil {
		exitf("listing maps: %v", err)
	}
	snapshots, err := a.openRecovery().List()
	if err != nil {
		exitf("listing recovery snapshots: %v", err)
	}
	a.close()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	ref, ok, err := tui.RunBrowser(tui.BrowserRows(entries, snapshots), width, height)
	if err != nil {
		exitf("running browser: %v", err)
	}
	if ok {
		editMap(ref)
	}
}
