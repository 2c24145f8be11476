package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
	"github.com/vovakirdan/tui-mapedit/internal/recovery"
	"github.com/vovakirdan/tui-mapedit/internal/storage"
)

// BrowserKeyMap defines the key bindings for the map browser.
type BrowserKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	NextGroup key.Binding
	PrevGroup key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.NextGroup, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k BrowserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.NextGroup, k.PrevGroup, k.Quit},
	}
}

// DefaultBrowserKeyMap returns default key bindings.
func DefaultBrowserKeyMap() BrowserKeyMap {
	return BrowserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		NextGroup: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next group"),
		),
		PrevGroup: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev group"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BrowserRow is one map in the browser: stored, recovered or both.
type BrowserRow struct {
	Ref      mapdoc.Ref
	Stored   *storage.MapEntry
	Recovery bool
}

// BrowserRows merges stored maps with recovery snapshots. Snapshots of
// maps never saved get a row of their own after the stored maps.
func BrowserRows(maps []storage.MapEntry, snapshots []recovery.Entry) []BrowserRow {
	recovered := make(map[mapdoc.Ref]bool, len(snapshots))
	for _, s := range snapshots {
		recovered[s.Ref] = true
	}

	rows := make([]BrowserRow, 0, len(maps)+len(snapshots))
	for i := range maps {
		ref := maps[i].Ref
		rows = append(rows, BrowserRow{Ref: ref, Stored: &maps[i], Recovery: recovered[ref]})
		delete(recovered, ref)
	}
	for _, s := range snapshots {
		if recovered[s.Ref] {
			rows = append(rows, BrowserRow{Ref: s.Ref, Recovery: true})
		}
	}
	return rows
}

// groupAll selects every group.
const groupAll = -1

// BrowserModel is the Bubble Tea model for picking a map to edit.
type BrowserModel struct {
	rows     []BrowserRow
	visible  []BrowserRow
	groups   []int32
	group    int // index into groups, or groupAll
	table    table.Model
	help     help.Model
	keys     BrowserKeyMap
	width    int
	height   int
	selected *mapdoc.Ref
	quitting bool
}

// NewBrowserModel creates a browser over rows.
func NewBrowserModel(rows []BrowserRow, width, height int) BrowserModel {
	seen := make(map[int32]bool)
	var groups []int32
	for _, r := range rows {
		if pos, ok := r.Ref.Position(); ok && !seen[pos.Group] {
			seen[pos.Group] = true
			groups = append(groups, pos.Group)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })

	m := BrowserModel{
		rows:   rows,
		groups: groups,
		group:  groupAll,
		help:   help.New(),
		keys:   DefaultBrowserKeyMap(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.filter()
	return m
}

func (m *BrowserModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Map", Width: 14},
		{Title: "Size", Width: 9},
		{Title: "Rev", Width: 5},
		{Title: "Saved", Width: 16},
		{Title: "Status", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-8)), // Leave room for title, help and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// filter shows the rows of the selected group.
func (m *BrowserModel) filter() {
	m.visible = m.visible[:0]
	for _, r := range m.rows {
		if m.group != groupAll {
			pos, ok := r.Ref.Position()
			if !ok || pos.Group != m.groups[m.group] {
				continue
			}
		}
		m.visible = append(m.visible, r)
	}

	rows := make([]table.Row, len(m.visible))
	for i, r := range m.visible {
		size, rev, saved := "-", "-", "-"
		status := "saved"
		if r.Stored != nil {
			size = fmt.Sprintf("%dx%d", r.Stored.Width, r.Stored.Height)
			rev = fmt.Sprintf("%d", r.Stored.Revision)
			saved = r.Stored.UpdatedAt.Format("Jan 02 15:04")
		} else {
			status = "never saved"
		}
		if r.Recovery {
			status = "recovery data"
		}
		rows[i] = table.Row{r.Ref.String(), size, rev, saved, status}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *BrowserModel) stepGroup(delta int) {
	if len(m.groups) == 0 {
		return
	}
	// groupAll sits before the first group in the cycle.
	n := len(m.groups) + 1
	m.group = (m.group+1+delta+n)%n - 1
	m.filter()
}

// Init initializes the browser.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if i := m.table.Cursor(); i >= 0 && i < len(m.visible) {
				ref := m.visible[i].Ref
				m.selected = &ref
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.NextGroup):
			m.stepGroup(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevGroup):
			m.stepGroup(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.filter()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m BrowserModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "MAPS - all groups"
	if m.group != groupAll {
		title = fmt.Sprintf("MAPS - group %d", m.groups[m.group])
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	if len(m.visible) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(boxStyle.Render(emptyStyle.Render("No maps stored yet.\nRun 'mapedit edit <x> <y> <group>' to create one.")))
	} else {
		b.WriteString(boxStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Selected returns the map picked with enter, if any.
func (m BrowserModel) Selected() (mapdoc.Ref, bool) {
	if m.selected == nil {
		return mapdoc.Ref{}, false
	}
	return *m.selected, true
}

// RunBrowser shows the map browser and returns the picked map.
// ok is false when the user quit without picking one.
func RunBrowser(rows []BrowserRow, width, height int) (ref mapdoc.Ref, ok bool, err error) {
	p := tea.NewProgram(
		NewBrowserModel(rows, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return mapdoc.Ref{}, false, err
	}

	m, isBrowser := finalModel.(BrowserModel)
	if !isBrowser {
		return mapdoc.Ref{}, false, nil
	}
	ref, ok = m.Selected()
	return ref, ok, nil
}
