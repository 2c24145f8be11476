package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
	"github.com/vovakirdan/tui-mapedit/internal/recovery"
	"github.com/vovakirdan/tui-mapedit/internal/storage"
)

func browserFixture() []BrowserRow {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	maps := []storage.MapEntry{
		{Ref: mapdoc.At(mapdoc.P(0, 0, 0)), Width: 40, Height: 20, Revision: 3, UpdatedAt: now},
		{Ref: mapdoc.At(mapdoc.P(1, 0, 0)), Width: 40, Height: 20, Revision: 1, UpdatedAt: now},
		{Ref: mapdoc.At(mapdoc.P(0, 0, 2)), Width: 16, Height: 16, Revision: 1, UpdatedAt: now},
	}
	snapshots := []recovery.Entry{
		{Ref: mapdoc.At(mapdoc.P(1, 0, 0))},
		{Ref: mapdoc.At(mapdoc.P(5, 5, 2))},
		{Ref: mapdoc.Scratch},
	}
	return BrowserRows(maps, snapshots)
}

func TestBrowserRows(t *testing.T) {
	rows := browserFixture()
	require.Len(t, rows, 5)

	require.Equal(t, "0_0_0", rows[0].Ref.String())
	require.False(t, rows[0].Recovery)
	require.True(t, rows[1].Recovery, "stored map with snapshot")
	require.NotNil(t, rows[1].Stored)

	require.Equal(t, "5_5_2", rows[3].Ref.String())
	require.Nil(t, rows[3].Stored)
	require.Equal(t, mapdoc.Scratch, rows[4].Ref)
}

func TestBrowserGroupsAndSelect(t *testing.T) {
	m := NewBrowserModel(browserFixture(), 80, 24)
	require.Equal(t, []int32{0, 2}, m.groups)
	require.Len(t, m.visible, 5)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(BrowserModel)
	require.Len(t, m.visible, 2)
	require.Contains(t, m.View(), "group 0")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(BrowserModel)
	require.Len(t, m.visible, 2)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(BrowserModel)
	require.Len(t, m.visible, 5, "cycle wraps to all groups")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(BrowserModel)
	require.Len(t, m.visible, 2)
	require.Equal(t, "0_0_2", m.visible[0].Ref.String())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(BrowserModel)
	require.True(t, isQuit(cmd))
	ref, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, mapdoc.At(mapdoc.P(0, 0, 2)), ref)
}

func TestBrowserQuitWithoutSelection(t *testing.T) {
	m := NewBrowserModel(nil, 80, 24)
	require.Contains(t, m.View(), "No maps stored yet.")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.True(t, isQuit(cmd))
	_, ok := next.(BrowserModel).Selected()
	require.False(t, ok)
}
