package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-mapedit/internal/core"
	"github.com/vovakirdan/tui-mapedit/internal/exitflow"
)

// Model is the Bubble Tea model for an editing session.
type Model struct {
	ed         *Editor
	inputFrame *core.InputFrame
	width      int
	height     int
	quitting   bool
}

// NewModel creates a Bubble Tea model around ed.
func NewModel(ed *Editor) Model {
	frame := core.NewInputFrame()
	return Model{
		ed:         ed,
		inputFrame: &frame,
		width:      ed.rt.ScreenW,
		height:     ed.rt.ScreenH,
	}
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.ed.rt.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input. While the exit dialog is open only
// its keys are accepted and they are applied at once; editor actions are
// collected and applied on the next frame.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ed.flow.Phase() == exitflow.AwaitingDecision {
		save, repeat, ok := m.ed.dialog.decision(msg)
		if !ok {
			return m, nil
		}
		if m.ed.Decide(save, repeat) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if a := m.ed.keys.MapKey(msg); a != core.ActionNone {
		m.inputFrame.Set(a)
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	m.ed.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick applies the collected input, then runs the due autosave and
// maintenance tasks.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	for _, a := range m.inputFrame.Actions {
		if m.ed.Do(a) {
			m.quitting = true
			m.inputFrame.Clear()
			return m, tea.Quit
		}
	}
	m.inputFrame.Clear()

	m.ed.Tick(now.Sub(m.ed.state.StartedAt()).Seconds())
	return m, tickCmd(m.ed.rt.TickRate)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	ed := m.ed
	if ed.dialog.visible {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, ed.dialog.view())
	}

	drawMap(ed.screen, ed.state.Doc(), ed.view, ed.cursorX, ed.cursorY)
	return RenderScreen(ed.screen) + "\n" +
		renderStatusBar(ed.statusInfo(), m.width) + "\n" +
		ed.help.View(ed.keys.Keys())
}

// Run starts the Bubble Tea program for ed.
func Run(ed *Editor) error {
	p := tea.NewProgram(
		NewModel(ed),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
