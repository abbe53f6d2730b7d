package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/treeplot/internal/viewer"
)

type keyMap struct {
	Submit      key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	ToggleTree  key.Binding
	FocusViewer key.Binding
	FocusForm   key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	OneToOne    key.Binding
	Reset       key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	CopyImage   key.Binding
	CopyLog     key.Binding
	Dismiss     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "insert"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		ToggleTree: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "switch tree"),
		),
		FocusViewer: key.NewBinding(
			key.WithKeys("esc", "ctrl+f"),
			key.WithHelp("esc", "focus viewer"),
		),
		FocusForm: key.NewBinding(
			key.WithKeys("i", "esc", "tab"),
			key.WithHelp("i", "focus form"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		OneToOne: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "1:1"),
		),
		Reset: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "reset"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "pan up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "pan down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "pan left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "pan right"),
		),
		CopyImage: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy image URI"),
		),
		CopyLog: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy log"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc", " "),
			key.WithHelp("enter", "ok"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "f1"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextField, k.ToggleTree, k.FocusViewer, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.NextField, k.PrevField, k.ToggleTree, k.FocusViewer},
		{k.ZoomIn, k.ZoomOut, k.OneToOne, k.Reset, k.FocusForm},
		{k.Up, k.Down, k.Left, k.Right},
		{k.CopyImage, k.CopyLog, k.Help, k.Quit},
	}
}

// viewerHelp is the short help shown while the viewer is focused
func (k keyMap) viewerHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.OneToOne, k.Reset, k.CopyImage, k.FocusForm, k.Quit}
}

// toolbarHints labels the viewer toolbar buttons with their keys
func (k keyMap) toolbarHints() map[viewer.Action]string {
	return map[viewer.Action]string{
		viewer.ActionZoomIn:   k.ZoomIn.Help().Key,
		viewer.ActionZoomOut:  k.ZoomOut.Help().Key,
		viewer.ActionOneToOne: k.OneToOne.Help().Key,
		viewer.ActionReset:    k.Reset.Help().Key,
	}
}

// handleKeyPress routes keyboard input by mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		m.Cleanup()
		return tea.Quit
	}

	switch m.mode {
	case ModeAlert:
		return m.handleAlertKeys(msg)
	case ModeHelp:
		m.mode = ModeNormal
		m.focusField(m.focusIdx)
		return nil
	case ModeViewer:
		return m.handleViewerKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.NextField):
		m.focusField(m.focusIdx + 1)
		return nil
	case key.Matches(msg, m.keys.PrevField):
		m.focusField(m.focusIdx - 1)
		return nil
	case key.Matches(msg, m.keys.ToggleTree):
		m.toggleTree()
		return nil
	case key.Matches(msg, m.keys.FocusViewer):
		m.blurForm()
		m.mode = ModeViewer
		return nil
	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return nil
	}

	// Everything else is typing
	inputs := m.inputs[m.selector.Active()]
	var cmd tea.Cmd
	inputs[m.focusIdx], cmd = inputs[m.focusIdx].Update(msg)
	return cmd
}

func (m *Model) handleViewerKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Cleanup()
		return tea.Quit
	case key.Matches(msg, m.keys.FocusForm):
		m.mode = ModeNormal
		m.focusField(m.focusIdx)
		return nil
	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return nil
	case key.Matches(msg, m.keys.ToggleTree):
		m.toggleTree()
		return nil
	case key.Matches(msg, m.keys.CopyImage):
		return m.copyImage()
	case key.Matches(msg, m.keys.CopyLog):
		return m.copyLog()
	case key.Matches(msg, m.keys.ZoomIn):
		return m.invoke(viewer.ActionZoomIn)
	case key.Matches(msg, m.keys.ZoomOut):
		return m.invoke(viewer.ActionZoomOut)
	case key.Matches(msg, m.keys.OneToOne):
		return m.invoke(viewer.ActionOneToOne)
	case key.Matches(msg, m.keys.Reset):
		return m.invoke(viewer.ActionReset)
	case key.Matches(msg, m.keys.Up):
		m.pan(0, PanStep)
	case key.Matches(msg, m.keys.Down):
		m.pan(0, -PanStep)
	case key.Matches(msg, m.keys.Left):
		m.pan(PanStep, 0)
	case key.Matches(msg, m.keys.Right):
		m.pan(-PanStep, 0)
	}
	return nil
}

func (m *Model) handleAlertKeys(msg tea.KeyMsg) tea.Cmd {
	if !key.Matches(msg, m.keys.Dismiss) {
		return nil
	}
	if len(m.alerts) > 0 {
		m.alerts = m.alerts[1:]
	}
	if len(m.alerts) == 0 {
		m.mode = ModeNormal
		m.focusField(m.focusIdx)
	}
	return nil
}
