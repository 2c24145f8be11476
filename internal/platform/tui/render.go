package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-mapedit/internal/core"
	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
	"github.com/vovakirdan/tui-mapedit/internal/notify"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

var (
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	dirtyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	autosavedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	levelStyles = map[notify.Level]lipgloss.Style{
		notify.Info:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		notify.Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		notify.Error: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("208")).
			Padding(1, 3)

	dialogTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
)

// Glyphs for cells without tiles.
const (
	emptyGlyph   = '·'
	blockedGlyph = 'X'
	cursorGlyph  = '◎'
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// drawMap paints the visible part of doc into s. view is in map cells;
// the screen's origin shows view.X, view.Y.
func drawMap(s *core.Screen, doc *mapdoc.Document, view core.Rect, cursorX, cursorY int) {
	s.Clear()
	for sy := range min(view.H, s.Height()) {
		for sx := range min(view.W, s.Width()) {
			x, y := view.X+sx, view.Y+sy
			if !doc.InBounds(x, y) {
				continue
			}
			s.SetCell(sx, sy, cellFor(doc, x, y))
		}
	}
	if view.Contains(cursorX, cursorY) {
		s.SetCell(cursorX-view.X, cursorY-view.Y, core.Cell{Rune: cursorGlyph, Color: core.ColorBrightWhite})
	}
}

// cellFor returns the topmost visible tile of a cell. Blocked cells are
// marked regardless of their tiles.
func cellFor(doc *mapdoc.Document, x, y int) core.Cell {
	if mapdoc.KindOf(doc.AttributeAt(x, y)) == mapdoc.AttrBlocked {
		return core.Cell{Rune: blockedGlyph, Color: core.ColorRed}
	}
	for l := mapdoc.LayerCount - 1; l >= 0; l-- {
		t := doc.TileAt(mapdoc.Layer(l), x, y)
		if t.Empty() {
			continue
		}
		return core.Cell{Rune: core.TileGlyph(t.X, t.Y), Color: core.TileColor(t.Tileset)}
	}
	return core.Cell{Rune: emptyGlyph, Color: core.ColorGray}
}

// statusInfo is everything the status bar shows.
type statusInfo struct {
	Map       string
	Tool      string
	Layer     string
	Tile      mapdoc.Tile
	Preset    string
	Dirty     bool
	Autosaved bool
	Pending   int
	Level     notify.Level
	Message   string
}

func renderStatusBar(info statusInfo, width int) string {
	parts := []string{
		"map " + info.Map,
		info.Tool,
		info.Layer,
		fmt.Sprintf("tile %d:(%d,%d)", info.Tile.Tileset, info.Tile.X, info.Tile.Y),
	}
	if info.Preset != "" {
		parts = append(parts, "preset "+info.Preset)
	}
	switch {
	case info.Dirty && info.Autosaved:
		parts = append(parts, autosavedStyle.Render("autosaved"))
	case info.Dirty:
		parts = append(parts, dirtyStyle.Render("modified"))
	}
	if info.Pending > 0 {
		parts = append(parts, fmt.Sprintf("%d unsaved", info.Pending))
	}
	line := strings.Join(parts, " │ ")
	if info.Message != "" {
		line += " │ " + levelStyles[info.Level].Render(info.Message)
	}
	return statusBarStyle.Width(width).Render(line)
}
