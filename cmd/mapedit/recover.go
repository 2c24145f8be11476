package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
)

var flagAll bool

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Manage recovery snapshots",
	Long: `Recovery snapshots hold edits that were never saved, for example
after a crash. They can be restored into the map database or discarded
without opening the editor.

Examples:
  mapedit recover list
  mapedit recover restore 2 5 0
  mapedit recover discard scratch
  mapedit recover discard -- -1_2_0
  mapedit recover discard --all`,
}

var recoverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recovery snapshots",
	Args:  cobra.NoArgs,
	Run:   runRecoverList,
}

var recoverRestoreCmd = &cobra.Command{
	Use:   "restore <map>",
	Short: "Save a snapshot to the map database and delete it",
	Run:   runRecoverRestore,
}

var recoverDiscardCmd = &cobra.Command{
	Use:   "discard <map>",
	Short: "Delete a snapshot",
	Run:   runRecoverDiscard,
}

func init() {
	recoverDiscardCmd.Flags().BoolVar(&flagAll, "all", false, "Delete every snapshot")
	recoverCmd.AddCommand(recoverListCmd)
	recoverCmd.AddCommand(recoverRestoreCmd)
	recoverCmd.AddCommand(recoverDiscardCmd)
}

func runRecoverList(cmd *cobra.Command, args []string) {
	a := setup()
	defer a.close()

	entries, err := a.openRecovery().List()
	if err != nil {
		exitf("%v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No recovery snapshots.")
		return
	}

	fmt.Printf("  %-14s  %-8s  %s\n", "Map", "Bytes", "Written")
	fmt.Printf("  %-14s  %-8s  %s\n", "---", "-----", "-------")
	for _, e := range entries {
		fmt.Printf("  %-14s  %-8d  %s\n", e.Ref, e.Size, e.ModTime.Format("2006-01-02 15:04:05"))
	}
}

func runRecoverRestore(cmd *cobra.Command, args []string) {
	ref, err := parseRef(args)
	if err != nil {
		exitf("%v", err)
	}

	a := setup()
	defer a.close()

	rec := a.openRecovery()
	doc, err := rec.ReadSnapshot(ref)
	if err != nil {
		exitf("reading snapshot for %s: %v", ref, err)
	}

	maps := a.openMaps()
	defer maps.Close()
	if err := maps.SaveMap(ref, doc, "recover"); err != nil {
		exitf("saving map %s: %v", ref, err)
	}
	if err := rec.DeleteSnapshot(ref); err != nil {
		exitf("map %s saved but snapshot not deleted: %v", ref, err)
	}
	a.logger.Info("snapshot restored", "map", ref)
	fmt.Printf("Restored map %s.\n", ref)
}

func runRecoverDiscard(cmd *cobra.Command, args []string) {
	a := setup()
	defer a.close()
	rec := a.openRecovery()

	var refs []mapdoc.Ref
	if flagAll {
		entries, err := rec.List()
		if err != nil {
			exitf("%v", err)
		}
		for _, e := range entries {
			refs = append(refs, e.Ref)
		}
	} else {
		if len(args) == 0 {
			exitf("name a map or pass --all")
		}
		ref, err := parseRef(args)
		if err != nil {
			exitf("%v", err)
		}
		refs = append(refs, ref)
	}

	for _, ref := range refs {
		if err := rec.DeleteSnapshot(ref); err != nil {
			exitf("discarding %s: %v", ref, err)
		}
		a.logger.Info("snapshot discarded", "map", ref)
	}
	fmt.Printf("Discarded %d snapshot(s).\n", len(refs))
}
