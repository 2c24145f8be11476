// Package preset implements the fixed 100-slot catalogue of tile animation
// presets. Each slot lives in its own binary file; missing slots are
// recreated with default values the first time the catalogue is loaded.
package preset

import (
	"fmt"

	"github.com/vovakirdan/tui-mapedit/internal/binfmt"
)

const (
	presetMagic   = "PRST"
	presetVersion = 1

	// FrameCount is the number of animation frames a preset holds.
	FrameCount = 4
)

// DrawType selects how a preset is drawn.
type DrawType uint8

const (
	DrawNormal DrawType = iota
	DrawAnimated
	DrawAutoTile
	DrawAutotileAnimated
)

// String returns a human-readable name for the draw type.
func (t DrawType) String() string {
	switch t {
	case DrawNormal:
		return "Normal"
	case DrawAnimated:
		return "Animated"
	case DrawAutoTile:
		return "AutoTile"
	case DrawAutotileAnimated:
		return "AutotileAnimated"
	default:
		return "Unknown"
	}
}

// Pos is a tile coordinate inside a tileset.
type Pos struct {
	X uint16
	Y uint16
}

// Frame is one animation frame: a tileset region from Start to End.
type Frame struct {
	Start   Pos
	End     Pos
	Tileset uint16
}

// Data is the content of one preset slot.
type Data struct {
	Name     string
	DrawType DrawType
	Frames   [FrameCount]Frame
}

// Default returns the value written to slots that have no file yet.
func Default() Data {
	return Data{Name: "Empty", DrawType: DrawNormal}
}

// MarshalBinary encodes the preset with the fixed slot file format.
func (d Data) MarshalBinary() ([]byte, error) {
	w := binfmt.NewWriter(16 + len(d.Name) + FrameCount*10)
	w.Header(presetMagic, presetVersion)
	w.Text(d.Name)
	w.U8(uint8(d.DrawType))
	for _, f := range d.Frames {
		w.U16(f.Start.X)
		w.U16(f.Start.Y)
		w.U16(f.End.X)
		w.U16(f.End.Y)
		w.U16(f.Tileset)
	}
	data, err := w.Finish()
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}
	return data, nil
}

// UnmarshalBinary decodes a slot file produced by MarshalBinary.
func (d *Data) UnmarshalBinary(data []byte) error {
	r := binfmt.NewReader(data)
	r.Header(presetMagic, presetVersion)

	var out Data
	out.Name = r.Text()
	out.DrawType = DrawType(r.U8())
	if r.Err() == nil && out.DrawType > DrawAutotileAnimated {
		r.Fail("unknown draw type %d", out.DrawType)
	}
	for i := range out.Frames {
		out.Frames[i] = Frame{
			Start:   Pos{X: r.U16(), Y: r.U16()},
			End:     Pos{X: r.U16(), Y: r.U16()},
			Tileset: r.U16(),
		}
	}
	if err := r.Finish(); err != nil {
		return fmt.Errorf("preset: %w", err)
	}
	*d = out
	return nil
}
