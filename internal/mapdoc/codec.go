package mapdoc

import (
	"fmt"

	"github.com/vovakirdan/tui-mapedit/internal/binfmt"
)

const (
	docMagic   = "MAPD"
	docVersion = 1

	tileSize = 6 // tileset, x, y
)

// Encode serializes the document with the fixed binary map format. It
// fails with binfmt.ErrTooLong when the music or a zone name does not fit.
func Encode(d *Document) ([]byte, error) {
	cells := int(d.Width) * int(d.Height)
	w := binfmt.NewWriter(16 + cells*(LayerCount*tileSize+1) + len(d.Music))
	w.Header(docMagic, docVersion)
	w.U16(d.Width)
	w.U16(d.Height)

	for l := range d.Layers {
		w.U32(uint32(len(d.Layers[l])))
		for _, t := range d.Layers[l] {
			w.U16(t.Tileset)
			w.U16(t.X)
			w.U16(t.Y)
		}
	}

	w.U32(uint32(len(d.Attributes)))
	for _, a := range d.Attributes {
		encodeAttribute(w, a)
	}

	w.U8(uint8(d.Weather.Kind))
	w.U8(d.Weather.Intensity)
	w.Text(d.Music)

	w.U32(uint32(len(d.Zones)))
	for _, z := range d.Zones {
		w.Text(z.Name)
		w.U16(z.Area.X)
		w.U16(z.Area.Y)
		w.U16(z.Area.W)
		w.U16(z.Area.H)
		w.U32(uint32(len(z.Spawns)))
		for _, s := range z.Spawns {
			w.U16(s)
		}
	}
	data, err := w.Finish()
	if err != nil {
		return nil, fmt.Errorf("mapdoc: %w", err)
	}
	return data, nil
}

func encodeAttribute(w *binfmt.Writer, a Attribute) {
	w.U8(uint8(KindOf(a)))
	switch v := a.(type) {
	case Warp:
		encodePosition(w, v.Target)
		w.U16(v.X)
		w.U16(v.Y)
	case Item:
		w.U16(v.ItemID)
		w.U16(v.Amount)
	case Resource:
		w.U16(v.ResourceID)
	}
}

func encodePosition(w *binfmt.Writer, p Position) {
	w.I32(p.X)
	w.I32(p.Y)
	w.I32(p.Group)
}

// EncodePosition returns the 12-byte little-endian encoding of p.
func EncodePosition(p Position) []byte {
	w := binfmt.NewWriter(12)
	encodePosition(w, p)
	return w.Bytes()
}

// DecodePosition decodes the output of EncodePosition.
func DecodePosition(b []byte) (Position, error) {
	r := binfmt.NewReader(b)
	p := decodePosition(r)
	if err := r.Finish(); err != nil {
		return Position{}, fmt.Errorf("mapdoc: %w", err)
	}
	return p, nil
}

func decodePosition(r *binfmt.Reader) Position {
	return Position{X: r.I32(), Y: r.I32(), Group: r.I32()}
}

// Decode parses a document produced by Encode. Corrupt, truncated or
// version-mismatched input yields a *binfmt.DecodeError.
func Decode(data []byte) (*Document, error) {
	r := binfmt.NewReader(data)
	r.Header(docMagic, docVersion)

	d := &Document{
		Width:  r.U16(),
		Height: r.U16(),
	}
	cells := int(d.Width) * int(d.Height)

	for l := range d.Layers {
		n := r.Count(tileSize)
		if r.Err() == nil && n != cells {
			r.Fail("layer %d has %d tiles, want %d", l, n, cells)
		}
		if r.Err() != nil {
			return nil, fmt.Errorf("mapdoc: %w", r.Err())
		}
		tiles := make([]Tile, n)
		for i := range tiles {
			tiles[i] = Tile{Tileset: r.U16(), X: r.U16(), Y: r.U16()}
		}
		d.Layers[l] = tiles
	}

	n := r.Count(1)
	if r.Err() == nil && n != cells {
		r.Fail("attribute count %d, want %d", n, cells)
	}
	if r.Err() != nil {
		return nil, fmt.Errorf("mapdoc: %w", r.Err())
	}
	d.Attributes = make([]Attribute, n)
	for i := range d.Attributes {
		d.Attributes[i] = decodeAttribute(r)
	}

	d.Weather = Weather{Kind: WeatherKind(r.U8()), Intensity: r.U8()}
	d.Music = r.Text()

	if zones := r.Count(14); zones > 0 {
		d.Zones = make([]Zone, zones)
		for i := range d.Zones {
			z := Zone{Name: r.Text()}
			z.Area = Rect{X: r.U16(), Y: r.U16(), W: r.U16(), H: r.U16()}
			if spawns := r.Count(2); spawns > 0 {
				z.Spawns = make([]uint16, spawns)
				for j := range z.Spawns {
					z.Spawns[j] = r.U16()
				}
			}
			d.Zones[i] = z
		}
	}

	if err := r.Finish(); err != nil {
		return nil, fmt.Errorf("mapdoc: %w", err)
	}
	return d, nil
}

func decodeAttribute(r *binfmt.Reader) Attribute {
	switch kind := AttrKind(r.U8()); kind {
	case AttrNone:
		return nil
	case AttrBlocked:
		return Blocked{}
	case AttrWarp:
		return Warp{Target: decodePosition(r), X: r.U16(), Y: r.U16()}
	case AttrItem:
		return Item{ItemID: r.U16(), Amount: r.U16()}
	case AttrNPCAvoid:
		return NPCAvoid{}
	case AttrResource:
		return Resource{ResourceID: r.U16()}
	default:
		if r.Err() == nil {
			r.Fail("unknown attribute tag %d", kind)
		}
		return nil
	}
}
