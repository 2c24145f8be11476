package preset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vovakirdan/tui-mapedit/internal/binfmt"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "presets"))
	require.NoError(t, err)
	return s
}

func waterfall() Data {
	return Data{
		Name:     "Waterfall",
		DrawType: DrawAnimated,
		Frames: [FrameCount]Frame{
			{Start: Pos{0, 0}, End: Pos{1, 1}, Tileset: 3},
			{Start: Pos{2, 0}, End: Pos{3, 1}, Tileset: 3},
			{Start: Pos{4, 0}, End: Pos{5, 1}, Tileset: 3},
		},
	}
}

func TestLoadAllBootstrapsEmptyDirectory(t *testing.T) {
	s := openTestStore(t)

	cat, err := s.LoadAll()
	require.NoError(t, err)
	for i, d := range cat {
		require.Equal(t, Default(), d, "slot %d", i)
		require.FileExists(t, s.Path(i))
	}
}

func TestLoadAllSelfHealsMissingSlots(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < SlotCount; i++ {
		d := waterfall()
		d.Frames[3].Tileset = uint16(i)
		require.NoError(t, s.SaveSlot(i, d))
	}
	require.NoError(t, os.Remove(s.Path(3)))
	require.NoError(t, os.Remove(s.Path(47)))

	cat, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, cat, SlotCount)
	for i, d := range cat {
		if i == 3 || i == 47 {
			require.Equal(t, Default(), d, "slot %d", i)
			continue
		}
		require.Equal(t, "Waterfall", d.Name)
		require.Equal(t, uint16(i), d.Frames[3].Tileset)
	}
	require.FileExists(t, s.Path(3))
	require.FileExists(t, s.Path(47))
}

func TestLoadAllFailsOnCorruptSlot(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadAll()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(s.Path(12), []byte("PRST\x09\x00"), 0o644))

	_, err = s.LoadAll()
	var de *binfmt.DecodeError
	require.True(t, errors.As(err, &de), "expected decode error, got %v", err)
	require.Contains(t, err.Error(), "slot 12")
}

func TestSaveSlotAndReset(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SaveSlot(7, waterfall()))

	got, err := s.Load(7)
	require.NoError(t, err)
	require.Equal(t, waterfall(), got)

	require.NoError(t, s.ResetSlot(7))
	got, err = s.Load(7)
	require.NoError(t, err)
	require.Equal(t, Default(), got)
}

func TestSlotIndexPrecondition(t *testing.T) {
	s := openTestStore(t)
	for _, idx := range []int{-1, SlotCount, SlotCount + 5} {
		require.Panics(t, func() { _ = s.SaveSlot(idx, Default()) }, "SaveSlot(%d)", idx)
		require.Panics(t, func() { _, _ = s.Load(idx) }, "Load(%d)", idx)
	}
}

func TestDataBinaryRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var d Data
		d.Name = rapid.StringN(0, 40, -1).Draw(t, "name")
		d.DrawType = DrawType(rapid.IntRange(0, int(DrawAutotileAnimated)).Draw(t, "drawType"))
		for i := range d.Frames {
			d.Frames[i] = Frame{
				Start:   Pos{rapid.Uint16().Draw(t, "sx"), rapid.Uint16().Draw(t, "sy")},
				End:     Pos{rapid.Uint16().Draw(t, "ex"), rapid.Uint16().Draw(t, "ey")},
				Tileset: rapid.Uint16().Draw(t, "tileset"),
			}
		}

		raw, err := d.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary: %v", err)
		}
		var got Data
		if err := got.UnmarshalBinary(raw); err != nil {
			t.Fatalf("UnmarshalBinary: %v", err)
		}
		if got != d {
			t.Fatalf("round trip mismatch: %+v vs %+v", got, d)
		}
	})
}

func TestSaveSlotRejectsOversizedName(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SaveSlot(7, waterfall()))

	long := waterfall()
	long.Name = strings.Repeat("n", 70000)
	require.ErrorIs(t, s.SaveSlot(7, long), binfmt.ErrTooLong)

	got, err := s.Load(7)
	require.NoError(t, err)
	require.Equal(t, waterfall(), got)
}

func TestUnmarshalRejectsUnknownDrawType(t *testing.T) {
	raw, _ := waterfall().MarshalBinary()
	// magic(4) + version(2) + name len(2) + "Waterfall"(9)
	raw[4+2+2+9] = 9

	var d Data
	err := d.UnmarshalBinary(raw)
	var de *binfmt.DecodeError
	require.ErrorAs(t, err, &de)
}
