package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-mapedit/internal/core"
)

// EditorKeyMap defines the key bindings of the map view.
type EditorKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Apply       key.Binding
	NextTool    key.Binding
	NextTile    key.Binding
	PrevTile    key.Binding
	NextTileset key.Binding
	NextLayer   key.Binding
	NextPreset  key.Binding
	Save        key.Binding
	PrevMap     key.Binding
	NextMap     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k EditorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Apply, k.NextTool, k.NextLayer, k.Save, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k EditorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Apply, k.NextTool, k.NextLayer, k.NextPreset},
		{k.NextTile, k.PrevTile, k.NextTileset},
		{k.PrevMap, k.NextMap, k.Save, k.Quit},
	}
}

// DefaultEditorKeyMap returns default key bindings.
func DefaultEditorKeyMap() EditorKeyMap {
	return EditorKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Apply: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "apply tool"),
		),
		NextTool: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "tool"),
		),
		NextTile: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "next tile"),
		),
		PrevTile: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "prev tile"),
		),
		NextTileset: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tileset"),
		),
		NextLayer: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "layer"),
		),
		NextPreset: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preset"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		PrevMap: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "west map"),
		),
		NextMap: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "east map"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to editor actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys     EditorKeyMap
	bindings []binding
}

type binding struct {
	key    *key.Binding
	action core.Action
}

// NewKeyMapper creates a key mapper over the given bindings.
func NewKeyMapper(keys EditorKeyMap) *KeyMapper {
	km := &KeyMapper{keys: keys}
	km.bindings = []binding{
		{&km.keys.Up, core.ActionUp},
		{&km.keys.Down, core.ActionDown},
		{&km.keys.Left, core.ActionLeft},
		{&km.keys.Right, core.ActionRight},
		{&km.keys.Apply, core.ActionApply},
		{&km.keys.NextTool, core.ActionNextTool},
		{&km.keys.NextTile, core.ActionNextTile},
		{&km.keys.PrevTile, core.ActionPrevTile},
		{&km.keys.NextTileset, core.ActionNextTileset},
		{&km.keys.NextLayer, core.ActionNextLayer},
		{&km.keys.NextPreset, core.ActionNextPreset},
		{&km.keys.Save, core.ActionSave},
		{&km.keys.PrevMap, core.ActionPrevMap},
		{&km.keys.NextMap, core.ActionNextMap},
		{&km.keys.Help, core.ActionHelp},
		{&km.keys.Quit, core.ActionQuit},
	}
	return km
}

// Keys returns the bindings, for the help view.
func (km *KeyMapper) Keys() EditorKeyMap {
	return km.keys
}

// MapKey translates a key message to an editor action.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	for _, b := range km.bindings {
		if key.Matches(msg, *b.key) {
			return b.action
		}
	}
	return core.ActionNone
}

// ConfirmKeyMap defines the key bindings of the unsaved-changes dialog.
type ConfirmKeyMap struct {
	Yes    key.Binding
	No     key.Binding
	YesAll key.Binding
	NoAll  key.Binding
}

// ShortHelp returns key bindings for the dialog footer.
func (k ConfirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No, k.YesAll, k.NoAll}
}

// FullHelp returns key bindings for the full help view.
func (k ConfirmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultConfirmKeyMap returns default dialog bindings.
func DefaultConfirmKeyMap() ConfirmKeyMap {
	return ConfirmKeyMap{
		Yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "save"),
		),
		No: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "discard"),
		),
		YesAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "save all"),
		),
		NoAll: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "discard all"),
		),
	}
}
