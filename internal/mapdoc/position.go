// Package mapdoc defines the editable map document, the coordinates that
// identify a map and the binary encoding used for recovery snapshots and
// primary storage.
package mapdoc

import (
	"fmt"
	"strconv"
	"strings"
)

// Position identifies a map in the world by its grid coordinates and group.
// It is a comparable value and can be used as a map key.
type Position struct {
	X     int32
	Y     int32
	Group int32
}

// P is a convenience constructor for Position.
func P(x, y, group int32) Position {
	return Position{X: x, Y: y, Group: group}
}

// String returns the x_y_group triplet used in file names.
func (p Position) String() string {
	return fmt.Sprintf("%d_%d_%d", p.X, p.Y, p.Group)
}

// Offset returns the neighbouring position dx, dy maps away in the same group.
func (p Position) Offset(dx, dy int32) Position {
	return Position{X: p.X + dx, Y: p.Y + dy, Group: p.Group}
}

// ParsePosition parses the x_y_group form produced by String.
func ParsePosition(s string) (Position, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 {
		return Position{}, fmt.Errorf("mapdoc: invalid position %q", s)
	}
	var vals [3]int32
	for i, part := range parts {
		v, err := strconv.ParseInt(part, 10, 32)
		if err != nil {
			return Position{}, fmt.Errorf("mapdoc: invalid position %q: %w", s, err)
		}
		vals[i] = int32(v)
	}
	return Position{X: vals[0], Y: vals[1], Group: vals[2]}, nil
}

// Ref names the map open in an editor: either a positioned map or the
// single unpositioned scratch map. The zero value is Scratch.
type Ref struct {
	Pos        Position
	Positioned bool
}

// Scratch refers to the unpositioned scratch map.
var Scratch = Ref{}

// At returns a Ref for a positioned map.
func At(p Position) Ref {
	return Ref{Pos: p, Positioned: true}
}

// Position returns the map position and whether one is assigned.
func (r Ref) Position() (Position, bool) {
	return r.Pos, r.Positioned
}

// String returns the position triplet, or "unpositioned" for Scratch.
func (r Ref) String() string {
	if !r.Positioned {
		return "unpositioned"
	}
	return r.Pos.String()
}
