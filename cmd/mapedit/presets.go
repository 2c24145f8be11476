package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-mapedit/internal/preset"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage preset slots",
	Long: fmt.Sprintf(`The editor keeps %d preset slots, one file each. Missing slots are
recreated with the default preset on first use.

Examples:
  mapedit presets list
  mapedit presets reset 12`, preset.SlotCount),
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List preset slots",
	Args:  cobra.NoArgs,
	Run:   runPresetsList,
}

var presetsResetCmd = &cobra.Command{
	Use:   "reset <slot>",
	Short: "Reset a slot to the default preset",
	Args:  cobra.ExactArgs(1),
	Run:   runPresetsReset,
}

func init() {
	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsResetCmd)
}

func openPresets(a *app) *preset.Store {
	store, err := preset.Open(a.cfg.Paths.PresetDir)
	if err != nil {
		exitf("opening presets: %v", err)
	}
	return store
}

func runPresetsList(cmd *cobra.Command, args []string) {
	a := setup()
	defer a.close()

	cat, err := openPresets(a).LoadAll()
	if err != nil {
		exitf("loading presets: %v", err)
	}

	fmt.Printf("  %-4s  %-20s  %s\n", "Slot", "Name", "Type")
	fmt.Printf("  %-4s  %-20s  %s\n", "----", "----", "----")
	def := preset.Default()
	for i, d := range cat {
		if d == def {
			continue
		}
		fmt.Printf("  %-4d  %-20s  %s\n", i, d.Name, d.DrawType)
	}
}

func runPresetsReset(cmd *cobra.Command, args []string) {
	slot, err := strconv.Atoi(args[0])
	if err != nil || slot < 0 || slot >= preset.SlotCount {
		exitf("slot must be a number from 0 to %d, got %q", preset.SlotCount-1, args[0])
	}

	a := setup()
	defer a.close()

	if err := openPresets(a).ResetSlot(slot); err != nil {
		exitf("resetting slot %d: %v", slot, err)
	}
	a.logger.Info("preset slot reset", "slot", slot)
	fmt.Printf("Slot %d reset.\n", slot)
}
