package mapdoc

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vovakirdan/tui-mapedit/internal/binfmt"
)

func sampleDoc() *Document {
	d := New(4, 3)
	d.SetTile(LayerGround, 0, 0, Tile{Tileset: 1, X: 2, Y: 3})
	d.SetTile(LayerFringe, 3, 2, Tile{Tileset: 2, X: 7, Y: 0})
	d.SetAttribute(1, 1, Blocked{})
	d.SetAttribute(2, 1, Warp{Target: P(-1, 4, 2), X: 5, Y: 6})
	d.SetAttribute(3, 0, Item{ItemID: 9, Amount: 12})
	d.SetAttribute(0, 2, NPCAvoid{})
	d.SetAttribute(1, 2, Resource{ResourceID: 33})
	d.Weather = Weather{Kind: WeatherSnow, Intensity: 40}
	d.Music = "town.ogg"
	d.Zones = []Zone{{Name: "meadow", Area: Rect{X: 0, Y: 0, W: 2, H: 2}, Spawns: []uint16{1, 4}}}
	return d
}

func TestEncodeDecodeDocument(t *testing.T) {
	doc := sampleDoc()
	data := mustEncode(t, doc)

	got, err := Decode(data)
	require.NoError(t, err)
	require.True(t, doc.Equal(got), "decoded document differs")
	require.Equal(t, data, mustEncode(t, got), "re-encoding must be byte-identical")
}

func mustEncode(t *testing.T, doc *Document) []byte {
	t.Helper()
	data, err := Encode(doc)
	require.NoError(t, err)
	return data
}

func TestEncodeRejectsOversizedText(t *testing.T) {
	doc := sampleDoc()
	doc.Music = strings.Repeat("é", 40000)

	_, err := Encode(doc)
	require.ErrorIs(t, err, binfmt.ErrTooLong)

	doc.Music = strings.Repeat("a", math.MaxUint16)
	got, err := Decode(mustEncode(t, doc))
	require.NoError(t, err)
	require.Equal(t, doc.Music, got.Music, "a string at the limit must survive")

	doc = sampleDoc()
	doc.Zones[0].Name = strings.Repeat("z", math.MaxUint16+1)
	_, err = Encode(doc)
	require.ErrorIs(t, err, binfmt.ErrTooLong)
}

func TestDecodeRejectsCorruptPayloads(t *testing.T) {
	good := mustEncode(t, sampleDoc())

	badTag := append([]byte(nil), good...)
	// First attribute tag follows header(6) + size(4) + three layers of (4 + 12*6).
	badTag[6+4+3*(4+12*tileSize)+4] = 0xEE

	mismatch := mustEncode(t, New(2, 2))
	mismatch[6] = 3 // width 3 no longer matches 4 tiles per layer

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte("XXXX"), good[4:]...)},
		{"truncated", good[:len(good)-3]},
		{"trailing bytes", append(append([]byte(nil), good...), 0)},
		{"unknown attribute tag", badTag},
		{"layer size mismatch", mismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			var de *binfmt.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Decode() error = %v, expected *binfmt.DecodeError", err)
			}
		})
	}
}

func TestPositionBinaryRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := P(rapid.Int32().Draw(t, "x"), rapid.Int32().Draw(t, "y"), rapid.Int32().Draw(t, "group"))
		b := EncodePosition(p)
		if len(b) != 12 {
			t.Fatalf("encoded length %d, want 12", len(b))
		}
		got, err := DecodePosition(b)
		if err != nil {
			t.Fatalf("DecodePosition: %v", err)
		}
		if got != p {
			t.Fatalf("round trip %v -> %v", p, got)
		}
		if !bytes.Equal(EncodePosition(got), b) {
			t.Fatal("re-encoding differs")
		}
	})
}

func TestPositionStringParse(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{P(2, 5, 0), "2_5_0"},
		{P(-3, 0, 7), "-3_0_7"},
	}
	for _, tc := range tests {
		if got := tc.pos.String(); got != tc.want {
			t.Errorf("String() = %q, expected %q", got, tc.want)
		}
		parsed, err := ParsePosition(tc.want)
		if err != nil {
			t.Fatalf("ParsePosition(%q) failed: %v", tc.want, err)
		}
		if parsed != tc.pos {
			t.Errorf("ParsePosition(%q) = %v, expected %v", tc.want, parsed, tc.pos)
		}
	}

	for _, bad := range []string{"", "1_2", "a_b_c", "1_2_3_4"} {
		if _, err := ParsePosition(bad); err == nil {
			t.Errorf("ParsePosition(%q) should fail", bad)
		}
	}
}

func TestRefString(t *testing.T) {
	if Scratch.String() != "unpositioned" {
		t.Errorf("Scratch.String() = %q", Scratch.String())
	}
	if got := At(P(1, 1, 0)).String(); got != "1_1_0" {
		t.Errorf("At().String() = %q", got)
	}
	if _, ok := Scratch.Position(); ok {
		t.Error("Scratch should have no position")
	}
}

func TestDocumentMutationReportsChange(t *testing.T) {
	d := New(3, 3)
	tile := Tile{Tileset: 1, X: 1, Y: 1}

	if !d.SetTile(LayerMask, 1, 1, tile) {
		t.Error("first SetTile should report a change")
	}
	if d.SetTile(LayerMask, 1, 1, tile) {
		t.Error("setting the same tile should not report a change")
	}
	if d.SetTile(LayerMask, 5, 5, tile) {
		t.Error("out-of-bounds SetTile should not report a change")
	}
	if !d.SetAttribute(0, 0, Blocked{}) || d.SetAttribute(0, 0, Blocked{}) {
		t.Error("SetAttribute change reporting is wrong")
	}
	if got := d.TileAt(LayerMask, 1, 1); got != tile {
		t.Errorf("TileAt() = %v, expected %v", got, tile)
	}
}

func TestDocumentCloneIsDeep(t *testing.T) {
	d := sampleDoc()
	c := d.Clone()
	require.True(t, d.Equal(c))

	c.SetTile(LayerGround, 0, 0, Tile{})
	c.Zones[0].Spawns[0] = 99
	require.False(t, d.Equal(c))
	require.Equal(t, uint16(1), d.Zones[0].Spawns[0])
}

const sampleYAML = `
position: {x: 2, y: 5, group: 0}
size: {w: 4, h: 3}
tiles:
  - {layer: ground, x: 0, y: 0, tileset: 1, tx: 2, ty: 3}
  - {layer: fringe, x: 3, y: 2, tileset: 2, tx: 7, ty: 0}
attributes:
  - {x: 1, y: 1, kind: blocked}
  - {x: 2, y: 1, kind: warp, target: {x: -1, y: 4, group: 2}, tx: 5, ty: 6}
weather: {kind: snow, intensity: 40}
music: town.ogg
zones:
  - {name: meadow, x: 0, y: 0, w: 2, h: 2, spawns: [1, 4]}
`

func TestParseYAML(t *testing.T) {
	pos, doc, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)
	require.Equal(t, P(2, 5, 0), pos)
	require.Equal(t, uint16(4), doc.Width)
	require.Equal(t, Tile{Tileset: 1, X: 2, Y: 3}, doc.TileAt(LayerGround, 0, 0))
	require.Equal(t, Warp{Target: P(-1, 4, 2), X: 5, Y: 6}, doc.AttributeAt(2, 1))
	require.Equal(t, WeatherSnow, doc.Weather.Kind)
	require.Len(t, doc.Zones, 1)
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"zero size", "size: {w: 0, h: 3}"},
		{"bad layer", "size: {w: 1, h: 1}\ntiles: [{layer: sky, x: 0, y: 0, tileset: 1}]"},
		{"tile out of bounds", "size: {w: 1, h: 1}\ntiles: [{layer: ground, x: 3, y: 0, tileset: 1}]"},
		{"warp without target", "size: {w: 1, h: 1}\nattributes: [{x: 0, y: 0, kind: warp}]"},
		{"bad weather", "size: {w: 1, h: 1}\nweather: {kind: hail}"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := ParseYAML([]byte(tc.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(sampleYAML), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.yml"),
		[]byte("position: {x: 0, y: 0, group: 0}\nsize: {w: 2, h: 2}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("size: {w: 0}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	files, skipped, err := NewLoader(dir).LoadAll()
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Len(t, skipped, 1)
	require.Equal(t, P(0, 0, 0), files[0].Position, "files should be sorted by position")
	require.Equal(t, P(2, 5, 0), files[1].Position)
}
