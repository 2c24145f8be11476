// Package tools implements the built-in editing tools and registers them.
package tools

import (
	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
	"github.com/vovakirdan/tui-mapedit/internal/registry"
)

// Maximum stamp footprint in cells.
const maxStamp = 16

func init() {
	registry.Register("pencil", func() registry.Tool { return Pencil{} })
	registry.Register("eraser", func() registry.Tool { return Eraser{} })
	registry.Register("fill", func() registry.Tool { return Fill{} })
	registry.Register("blocker", func() registry.Tool { return Blocker{} })
	registry.Register("stamp", func() registry.Tool { return Stamp{} })
}

// Pencil paints the brush tile on one cell.
type Pencil struct{}

func (Pencil) ID() string    { return "pencil" }
func (Pencil) Title() string { return "Pencil" }

func (Pencil) Apply(doc *mapdoc.Document, x, y int, b registry.Brush) bool {
	return doc.SetTile(b.Layer, x, y, b.Tile)
}

// Eraser clears one cell of the brush layer.
type Eraser struct{}

func (Eraser) ID() string    { return "eraser" }
func (Eraser) Title() string { return "Eraser" }

func (Eraser) Apply(doc *mapdoc.Document, x, y int, b registry.Brush) bool {
	return doc.SetTile(b.Layer, x, y, mapdoc.Tile{})
}

// Fill flood-fills the 4-connected region of equal tiles around a cell.
type Fill struct{}

func (Fill) ID() string    { return "fill" }
func (Fill) Title() string { return "Fill" }

func (Fill) Apply(doc *mapdoc.Document, x, y int, b registry.Brush) bool {
	if !doc.InBounds(x, y) {
		return false
	}
	target := doc.TileAt(b.Layer, x, y)
	if target == b.Tile {
		return false
	}

	type cell struct{ x, y int }
	stack := []cell{{x, y}}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !doc.InBounds(c.x, c.y) || doc.TileAt(b.Layer, c.x, c.y) != target {
			continue
		}
		doc.SetTile(b.Layer, c.x, c.y, b.Tile)
		stack = append(stack, cell{c.x + 1, c.y}, cell{c.x - 1, c.y}, cell{c.x, c.y + 1}, cell{c.x, c.y - 1})
	}
	return true
}

// Blocker toggles the blocked attribute of a cell.
type Blocker struct{}

func (Blocker) ID() string    { return "blocker" }
func (Blocker) Title() string { return "Block" }

func (Blocker) Apply(doc *mapdoc.Document, x, y int, _ registry.Brush) bool {
	if !doc.InBounds(x, y) {
		return false
	}
	if mapdoc.KindOf(doc.AttributeAt(x, y)) == mapdoc.AttrBlocked {
		return doc.SetAttribute(x, y, nil)
	}
	return doc.SetAttribute(x, y, mapdoc.Blocked{})
}

// Stamp copies the first frame of the brush preset with its top-left tile
// at the cell. The frame is a rectangle of tileset coordinates.
type Stamp struct{}

func (Stamp) ID() string    { return "stamp" }
func (Stamp) Title() string { return "Stamp" }

func (Stamp) Apply(doc *mapdoc.Document, x, y int, b registry.Brush) bool {
	f := b.Preset.Frames[0]
	x0, x1 := ordered(f.Start.X, f.End.X)
	y0, y1 := ordered(f.Start.Y, f.End.Y)
	w := min(int(x1-x0)+1, maxStamp)
	h := min(int(y1-y0)+1, maxStamp)

	changed := false
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			t := mapdoc.Tile{Tileset: f.Tileset, X: x0 + uint16(dx), Y: y0 + uint16(dy)}
			if doc.SetTile(b.Layer, x+dx, y+dy, t) {
				changed = true
			}
		}
	}
	return changed
}

func ordered(a, b uint16) (uint16, uint16) {
	if a > b {
		return b, a
	}
	return a, b
}
