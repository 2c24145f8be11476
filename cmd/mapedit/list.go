package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
	"github.com/vovakirdan/tui-mapedit/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored maps",
	Long: `Shows every map in the database. Maps with a recovery snapshot
are marked; snapshots of maps that were never saved are listed too.`,
	Args: cobra.NoArgs,
	Run:  runList,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List editing tools",
	Long:  `Shows the editing tools registered in the editor.`,
	Args:  cobra.NoArgs,
	Run:   runTools,
}

func runList(cmd *cobra.Command, args []string) {
	a := setup()
	defer a.close()

	maps := a.openMaps()
	defer maps.Close()
	rec := a.openRecovery()

	entries, err := maps.ListMaps()
	if err != nil {
		exitf("listing maps: %v", err)
	}
	snapshots, err := rec.List()
	if err != nil {
		exitf("listing recovery snapshots: %v", err)
	}
	unsaved := make(map[mapdoc.Ref]bool, len(snapshots))
	for _, s := range snapshots {
		unsaved[s.Ref] = true
	}

	if len(entries) == 0 && len(snapshots) == 0 {
		fmt.Println("No maps stored yet.")
		fmt.Println()
		fmt.Println("Run 'mapedit edit <x> <y> <group>' to create one.")
		return
	}

	fmt.Printf("  %-14s  %-9s  %-4s  %-16s  %s\n", "Map", "Size", "Rev", "Saved", "")
	fmt.Printf("  %-14s  %-9s  %-4s  %-16s  %s\n", "---", "----", "---", "-----", "")
	for _, e := range entries {
		mark := ""
		if unsaved[e.Ref] {
			mark = "recovery data"
			delete(unsaved, e.Ref)
		}
		size := fmt.Sprintf("%dx%d", e.Width, e.Height)
		fmt.Printf("  %-14s  %-9s  %-4d  %-16s  %s\n",
			e.Ref, size, e.Revision, e.UpdatedAt.Format("2006-01-02 15:04"), mark)
	}
	for _, s := range snapshots {
		if !unsaved[s.Ref] {
			continue
		}
		fmt.Printf("  %-14s  %-9s  %-4s  %-16s  %s\n",
			s.Ref, "-", "-", s.ModTime.Format("2006-01-02 15:04"), "never saved, recovery data")
	}
}

func runTools(cmd *cobra.Command, args []string) {
	tools := registry.List()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, t := range tools {
		if len(t.ID) > maxIDLen {
			maxIDLen = len(t.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, t := range tools {
		fmt.Printf("  %-*s  %s\n", maxIDLen, t.ID, t.Title)
	}
}
