package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-mapedit/internal/exitflow"
)

// confirmDialog asks whether a map with unsaved edits should be saved.
// It is the exit flow's Prompter.
type confirmDialog struct {
	keys    ConfirmKeyMap
	help    help.Model
	req     exitflow.Request
	visible bool
	prompts int
}

func newConfirmDialog() *confirmDialog {
	return &confirmDialog{keys: DefaultConfirmKeyMap(), help: help.New()}
}

// Prompt implements exitflow.Prompter.
func (d *confirmDialog) Prompt(req exitflow.Request) {
	d.req = req
	d.visible = true
	d.prompts++
}

func (d *confirmDialog) hide() {
	d.visible = false
}

// bindings returns the keys valid for the current request. The "all"
// variants only make sense while more maps are queued.
func (d *confirmDialog) bindings() []key.Binding {
	if d.req.HasMore {
		return d.keys.ShortHelp()
	}
	return []key.Binding{d.keys.Yes, d.keys.No}
}

// decision maps a key press to a Decide call. ok is false for other keys.
func (d *confirmDialog) decision(msg tea.KeyMsg) (save, repeat, ok bool) {
	switch {
	case key.Matches(msg, d.keys.Yes):
		return true, false, true
	case key.Matches(msg, d.keys.No):
		return false, false, true
	case d.req.HasMore && key.Matches(msg, d.keys.YesAll):
		return true, true, true
	case d.req.HasMore && key.Matches(msg, d.keys.NoAll):
		return false, true, true
	}
	return false, false, false
}

func (d *confirmDialog) view() string {
	var b strings.Builder
	b.WriteString(dialogTitleStyle.Render("Unsaved changes"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Save changes to map %s?", d.req.Ref)
	if d.req.HasMore {
		fmt.Fprintf(&b, "\n%d more map(s) have unsaved changes.", d.req.Remaining)
	}
	b.WriteString("\n\n")
	b.WriteString(d.help.ShortHelpView(d.bindings()))
	return dialogStyle.Render(b.String())
}
