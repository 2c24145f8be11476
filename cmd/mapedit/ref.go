package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
)

// negativeFlag matches the parser's complaint about "-3" or "-3_1_0".
var negativeFlag = regexp.MustCompile(`unknown shorthand flag: '[0-9]'`)

// flagError points at -- when a negative coordinate was read as a flag.
func flagError(cmd *cobra.Command, err error) error {
	if negativeFlag.MatchString(err.Error()) {
		return fmt.Errorf("%w\nnegative coordinates go after --, e.g. %s edit -- -1 2 0", err, cmd.Root().Name())
	}
	return err
}

// parseRef accepts "scratch", "x_y_group" or three separate numbers.
// No arguments name the scratch map.
func parseRef(args []string) (mapdoc.Ref, error) {
	switch len(args) {
	case 0:
		return mapdoc.Scratch, nil
	case 1:
		if args[0] == "scratch" {
			return mapdoc.Scratch, nil
		}
		pos, err := mapdoc.ParsePosition(args[0])
		if err != nil {
			return mapdoc.Ref{}, err
		}
		return mapdoc.At(pos), nil
	case 3:
		pos, err := mapdoc.ParsePosition(strings.Join(args, "_"))
		if err != nil {
			return mapdoc.Ref{}, err
		}
		return mapdoc.At(pos), nil
	default:
		return mapdoc.Ref{}, fmt.Errorf("expected a map as \"x y group\", \"x_y_group\" or \"scratch\", got %d arguments", len(args))
	}
}
