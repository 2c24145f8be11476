package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
)

var flagOverwrite bool

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import YAML map files",
	Long: `Recursively reads *.yaml and *.yml map files under dir and saves
them to the map database. Files that fail to parse are reported and
skipped. Maps already stored are kept unless --overwrite is given.

Examples:
  mapedit import ./maps
  mapedit import ./maps --overwrite`,
	Args: cobra.ExactArgs(1),
	Run:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagOverwrite, "overwrite", false, "Replace maps that are already stored")
}

func runImport(cmd *cobra.Command, args []string) {
	a := setup()
	defer a.close()

	files, skipped, err := mapdoc.NewLoader(args[0]).LoadAll()
	if err != nil {
		exitf("%v", err)
	}

	maps := a.openMaps()
	defer maps.Close()

	imported, kept := 0, 0
	for _, f := range files {
		ref := mapdoc.At(f.Position)
		if !flagOverwrite {
			exists, err := maps.HasMap(ref)
			if err != nil {
				exitf("checking map %s: %v", ref, err)
			}
			if exists {
				kept++
				continue
			}
		}
		if err := maps.SaveMap(ref, f.Doc, "import"); err != nil {
			exitf("saving map %s from %s: %v", ref, f.Path, err)
		}
		a.logger.Info("map imported", "map", ref, "file", f.Path)
		imported++
	}

	for path, perr := range skipped {
		fmt.Fprintf(os.Stderr, "Skipped %s: %v\n", path, perr)
	}
	fmt.Printf("Imported %d map(s), kept %d existing, skipped %d file(s).\n", imported, kept, len(skipped))
}
