package mapdoc

// Layer indexes the tile layers of a document, drawn bottom to top.
type Layer int

const (
	LayerGround Layer = iota
	LayerMask
	LayerFringe
	LayerCount int = 3
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerGround:
		return "ground"
	case LayerMask:
		return "mask"
	case LayerFringe:
		return "fringe"
	default:
		return "unknown"
	}
}

// Tile references a cell of a tileset image. The zero Tile is empty.
type Tile struct {
	Tileset uint16 // 0 = empty, tilesets are 1-based
	X       uint16
	Y       uint16
}

// Empty reports whether the tile draws nothing.
func (t Tile) Empty() bool {
	return t.Tileset == 0
}

// WeatherKind selects the ambient weather effect of a map.
type WeatherKind uint8

const (
	WeatherNone WeatherKind = iota
	WeatherRain
	WeatherSnow
	WeatherFog
	WeatherStorm
)

// String returns the weather name.
func (w WeatherKind) String() string {
	switch w {
	case WeatherNone:
		return "none"
	case WeatherRain:
		return "rain"
	case WeatherSnow:
		return "snow"
	case WeatherFog:
		return "fog"
	case WeatherStorm:
		return "storm"
	default:
		return "unknown"
	}
}

// Weather is the ambient weather of a map.
type Weather struct {
	Kind      WeatherKind
	Intensity uint8
}

// Rect is a zone area in tile coordinates.
type Rect struct {
	X, Y, W, H uint16
}

// Contains reports whether the tile (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= int(r.X) && x < int(r.X)+int(r.W) && y >= int(r.Y) && y < int(r.Y)+int(r.H)
}

// Zone is a named area of the map with the NPCs that may spawn in it.
type Zone struct {
	Name   string
	Area   Rect
	Spawns []uint16
}

// Document is the full editable content of one map.
// Layers and Attributes are row-major: index = y*Width + x.
type Document struct {
	Width      uint16
	Height     uint16
	Layers     [LayerCount][]Tile
	Attributes []Attribute
	Weather    Weather
	Music      string
	Zones      []Zone
}

// New creates an empty document with the given dimensions.
func New(width, height uint16) *Document {
	n := int(width) * int(height)
	d := &Document{
		Width:      width,
		Height:     height,
		Attributes: make([]Attribute, n),
	}
	for i := range d.Layers {
		d.Layers[i] = make([]Tile, n)
	}
	return d
}

// InBounds reports whether (x, y) is a cell of the document.
func (d *Document) InBounds(x, y int) bool {
	return x >= 0 && x < int(d.Width) && y >= 0 && y < int(d.Height)
}

func (d *Document) index(x, y int) int {
	return y*int(d.Width) + x
}

// TileAt returns the tile at (x, y) on the given layer.
// Returns an empty tile if out of bounds.
func (d *Document) TileAt(l Layer, x, y int) Tile {
	if !d.InBounds(x, y) || int(l) < 0 || int(l) >= LayerCount {
		return Tile{}
	}
	return d.Layers[l][d.index(x, y)]
}

// SetTile places a tile and reports whether the document changed.
func (d *Document) SetTile(l Layer, x, y int, t Tile) bool {
	if !d.InBounds(x, y) || int(l) < 0 || int(l) >= LayerCount {
		return false
	}
	i := d.index(x, y)
	if d.Layers[l][i] == t {
		return false
	}
	d.Layers[l][i] = t
	return true
}

// AttributeAt returns the attribute at (x, y), nil if none.
func (d *Document) AttributeAt(x, y int) Attribute {
	if !d.InBounds(x, y) {
		return nil
	}
	return d.Attributes[d.index(x, y)]
}

// SetAttribute sets the attribute at (x, y) and reports whether the document changed.
func (d *Document) SetAttribute(x, y int, a Attribute) bool {
	if !d.InBounds(x, y) {
		return false
	}
	i := d.index(x, y)
	if d.Attributes[i] == a {
		return false
	}
	d.Attributes[i] = a
	return true
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		Width:      d.Width,
		Height:     d.Height,
		Attributes: append([]Attribute(nil), d.Attributes...),
		Weather:    d.Weather,
		Music:      d.Music,
	}
	for i := range d.Layers {
		c.Layers[i] = append([]Tile(nil), d.Layers[i]...)
	}
	if d.Zones != nil {
		c.Zones = make([]Zone, len(d.Zones))
		for i, z := range d.Zones {
			z.Spawns = append([]uint16(nil), z.Spawns...)
			c.Zones[i] = z
		}
	}
	return c
}

// Equal reports whether two documents hold the same content.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.Width != o.Width || d.Height != o.Height || d.Weather != o.Weather || d.Music != o.Music {
		return false
	}
	for l := range d.Layers {
		if !equalSlices(d.Layers[l], o.Layers[l]) {
			return false
		}
	}
	if !equalSlices(d.Attributes, o.Attributes) || len(d.Zones) != len(o.Zones) {
		return false
	}
	for i := range d.Zones {
		a, b := d.Zones[i], o.Zones[i]
		if a.Name != b.Name || a.Area != b.Area || !equalSlices(a.Spawns, b.Spawns) {
			return false
		}
	}
	return true
}

func equalSlices[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
