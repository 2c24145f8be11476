package mapdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLMap is the hand-editable map file format accepted by "mapedit import".
type YAMLMap struct {
	Position   YAMLPosition    `yaml:"position"`
	Size       YAMLSize        `yaml:"size"`
	Tiles      []YAMLTile      `yaml:"tiles"`
	Attributes []YAMLAttribute `yaml:"attributes,omitempty"`
	Weather    YAMLWeather     `yaml:"weather,omitempty"`
	Music      string          `yaml:"music,omitempty"`
	Zones      []YAMLZone      `yaml:"zones,omitempty"`
}

// YAMLPosition is the map's world coordinate.
type YAMLPosition struct {
	X     int32 `yaml:"x"`
	Y     int32 `yaml:"y"`
	Group int32 `yaml:"group"`
}

// YAMLSize represents map dimensions.
type YAMLSize struct {
	W uint16 `yaml:"w"`
	H uint16 `yaml:"h"`
}

// YAMLTile places one tile. Layer names: ground, mask, fringe.
type YAMLTile struct {
	Layer   string `yaml:"layer"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Tileset uint16 `yaml:"tileset"`
	TX      uint16 `yaml:"tx"`
	TY      uint16 `yaml:"ty"`
}

// YAMLAttribute sets one cell attribute. Kind selects which of the other
// fields are read.
type YAMLAttribute struct {
	X      int           `yaml:"x"`
	Y      int           `yaml:"y"`
	Kind   string        `yaml:"kind"`
	Target *YAMLPosition `yaml:"target,omitempty"`
	TX     uint16        `yaml:"tx,omitempty"`
	TY     uint16        `yaml:"ty,omitempty"`
	ID     uint16        `yaml:"id,omitempty"`
	Amount uint16        `yaml:"amount,omitempty"`
}

// YAMLWeather is the ambient weather.
type YAMLWeather struct {
	Kind      string `yaml:"kind"`
	Intensity uint8  `yaml:"intensity"`
}

// YAMLZone is a named spawn zone.
type YAMLZone struct {
	Name   string   `yaml:"name"`
	X      uint16   `yaml:"x"`
	Y      uint16   `yaml:"y"`
	W      uint16   `yaml:"w"`
	H      uint16   `yaml:"h"`
	Spawns []uint16 `yaml:"spawns,omitempty"`
}

// MapFile is a parsed map file ready to import.
type MapFile struct {
	Position Position
	Doc      *Document
	Path     string
}

// ParseYAML parses a YAML map file.
func ParseYAML(data []byte) (Position, *Document, error) {
	var ym YAMLMap
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return Position{}, nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if ym.Size.W == 0 || ym.Size.H == 0 {
		return Position{}, nil, fmt.Errorf("map size must be positive, got %dx%d", ym.Size.W, ym.Size.H)
	}

	pos := P(ym.Position.X, ym.Position.Y, ym.Position.Group)
	doc := New(ym.Size.W, ym.Size.H)

	for _, t := range ym.Tiles {
		layer, ok := parseLayer(t.Layer)
		if !ok {
			return Position{}, nil, fmt.Errorf("unknown layer %q", t.Layer)
		}
		if !doc.InBounds(t.X, t.Y) {
			return Position{}, nil, fmt.Errorf("tile (%d,%d) outside %dx%d map", t.X, t.Y, doc.Width, doc.Height)
		}
		doc.SetTile(layer, t.X, t.Y, Tile{Tileset: t.Tileset, X: t.TX, Y: t.TY})
	}

	for _, a := range ym.Attributes {
		attr, err := a.attribute()
		if err != nil {
			return Position{}, nil, err
		}
		if !doc.InBounds(a.X, a.Y) {
			return Position{}, nil, fmt.Errorf("attribute (%d,%d) outside %dx%d map", a.X, a.Y, doc.Width, doc.Height)
		}
		doc.SetAttribute(a.X, a.Y, attr)
	}

	if ym.Weather.Kind != "" {
		kind, ok := parseWeather(ym.Weather.Kind)
		if !ok {
			return Position{}, nil, fmt.Errorf("unknown weather %q", ym.Weather.Kind)
		}
		doc.Weather = Weather{Kind: kind, Intensity: ym.Weather.Intensity}
	}
	doc.Music = ym.Music

	for _, z := range ym.Zones {
		doc.Zones = append(doc.Zones, Zone{
			Name:   z.Name,
			Area:   Rect{X: z.X, Y: z.Y, W: z.W, H: z.H},
			Spawns: z.Spawns,
		})
	}

	return pos, doc, nil
}

func (a YAMLAttribute) attribute() (Attribute, error) {
	switch strings.ToLower(a.Kind) {
	case "", "none":
		return nil, nil
	case "blocked":
		return Blocked{}, nil
	case "warp":
		if a.Target == nil {
			return nil, fmt.Errorf("warp at (%d,%d) has no target", a.X, a.Y)
		}
		return Warp{Target: P(a.Target.X, a.Target.Y, a.Target.Group), X: a.TX, Y: a.TY}, nil
	case "item":
		return Item{ItemID: a.ID, Amount: a.Amount}, nil
	case "npc_avoid":
		return NPCAvoid{}, nil
	case "resource":
		return Resource{ResourceID: a.ID}, nil
	default:
		return nil, fmt.Errorf("unknown attribute kind %q", a.Kind)
	}
}

func parseLayer(name string) (Layer, bool) {
	for l := range LayerCount {
		if Layer(l).String() == strings.ToLower(name) {
			return Layer(l), true
		}
	}
	return 0, false
}

func parseWeather(name string) (WeatherKind, bool) {
	for k := WeatherNone; k <= WeatherStorm; k++ {
		if k.String() == strings.ToLower(name) {
			return k, true
		}
	}
	return 0, false
}

// Loader reads YAML map files from a directory tree.
type Loader struct {
	Root string
}

// NewLoader creates a new map file loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and parses all map files under Root.
// Files that fail to parse are returned in skipped rather than aborting
// the scan. Results are sorted by position for deterministic imports.
func (l *Loader) LoadAll() (files []MapFile, skipped map[string]error, err error) {
	skipped = make(map[string]error)

	err = filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		f, err := l.LoadFile(path)
		if err != nil {
			skipped[path] = err
			return nil
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		a, b := files[i].Position, files[j].Position
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return files, skipped, nil
}

// LoadFile parses a single map file.
func (l *Loader) LoadFile(path string) (MapFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MapFile{}, fmt.Errorf("reading file %s: %w", path, err)
	}
	pos, doc, err := ParseYAML(data)
	if err != nil {
		return MapFile{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	return MapFile{Position: pos, Doc: doc, Path: path}, nil
}
