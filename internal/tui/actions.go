package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/treeplot/internal/viewer"
)

// submit collects the visible form, resets it and starts the request. The
// log entry is shown before the request is sent.
func (m *Model) submit() tea.Cmd {
	active := m.selector.Active()
	inputs := m.inputs[active]

	fields := make(map[string]string, len(inputs))
	for i, name := range active.Fields() {
		fields[name] = inputs[i].Value()
	}

	sub := m.collector.Collect(active, fields)
	m.logger.Info("insert", "seq", sub.Seq, "mode", active.String(), "body", sub.Body)

	for i := range inputs {
		inputs[i].Reset()
	}
	if sub.Focus != "" {
		for i, name := range active.Fields() {
			if name == sub.Focus {
				m.focusField(i)
			}
		}
	}
	m.updateLogView()

	ctx, cancel := context.WithCancel(m.ctx)
	m.requestState.Start(sub.Seq, cancel)

	d := m.dispatcher
	return func() tea.Msg {
		result, err := d.Dispatch(ctx, sub)
		return responseMsg{seq: sub.Seq, result: result, err: err}
	}
}

// toggleTree switches the visible form. Typed values stay in the hidden form.
func (m *Model) toggleTree() {
	m.blurForm()
	next := m.selector.Toggle()
	m.focusIdx = 0
	if m.mode == ModeNormal {
		m.focusField(0)
	}
	m.updateViewport()
	m.statusMsg = fmt.Sprintf("Switched to %s", next.Title())
}

// focusField focuses field i of the visible form, wrapping around
func (m *Model) focusField(i int) {
	inputs := m.inputs[m.selector.Active()]
	if len(inputs) == 0 {
		return
	}
	i = ((i % len(inputs)) + len(inputs)) % len(inputs)
	for j := range inputs {
		if j == i {
			inputs[j].Focus()
		} else {
			inputs[j].Blur()
		}
	}
	m.focusIdx = i
}

func (m *Model) blurForm() {
	inputs := m.inputs[m.selector.Active()]
	for j := range inputs {
		inputs[j].Blur()
	}
}

// invoke runs a viewer toolbar action when a widget exists
func (m *Model) invoke(a viewer.Action) tea.Cmd {
	w, ok := m.viewerMgr.Widget()
	if !ok {
		return m.setStatusMessage("No image yet")
	}
	if err := w.Invoke(a); err != nil {
		return func() tea.Msg { return errorMsg(err.Error()) }
	}
	return m.setStatusMessage(fmt.Sprintf("%s: %.0f%%", a, w.Ratio()*100))
}

func (m *Model) pan(dx, dy int) {
	if w, ok := m.viewerMgr.Widget(); ok {
		w.Move(dx, dy)
	}
}

// copyImage copies the current image data URI to the clipboard
func (m *Model) copyImage() tea.Cmd {
	src := m.viewerMgr.Element().Src
	if src == "" {
		return m.setStatusMessage("No image yet")
	}
	return func() tea.Msg {
		if err := clipboard.WriteAll(src); err != nil {
			return errorMsg(fmt.Sprintf("Failed to copy to clipboard: %v", err))
		}
		return statusMsg("Image URI copied to clipboard")
	}
}

// copyLog copies the insertion log, one entry per line
func (m *Model) copyLog() tea.Cmd {
	text := m.collector.Log().String()
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return errorMsg(fmt.Sprintf("Failed to copy to clipboard: %v", err))
		}
		return statusMsg("Log copied to clipboard")
	}
}

// setStatusMessage shows msg and clears it after a delay
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.statusMsg = msg
	m.errorMsg = ""
	return tea.Tick(StatusClearDelay, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
