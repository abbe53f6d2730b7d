/*
Package tui implements the terminal controller for treeplot.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: the mode selector, the two input forms, the insertion log and the
    viewer manager
  - Update: processes key presses and finished requests
  - View: renders the form column, the viewer pane and the status bar

# Key Components

  - model.go: Model struct, Update loop and message types
  - keys.go: key bindings (bubbles/key) and per-mode key handling
  - actions.go: submission, request commands, toolbar actions, clipboard
  - render.go: layout and rendering with lipgloss
  - sync_state.go: cancel functions of in-flight requests

# Request Lifecycle

Pressing enter collects the visible form through the collector, which logs
the insertion immediately. The request runs in a tea.Cmd; its result comes
back as a responseMsg and is reconciled inside Update, so the decision to
create or refresh the viewer is always taken on the UI goroutine. Several
requests may be in flight at once; they never cancel each other.

# Modes

  - ModeNormal: typing into the visible form
  - ModeViewer: zoom and pan keys drive the viewer toolbar
  - ModeAlert: a message from the tree service blocks all other input
    until dismissed; further messages queue behind it
  - ModeHelp: full key reference

# Example Usage

	d, err := executor.NewDispatcher("http://localhost:8080", nil, executor.DefaultTimeout)
	if err != nil {
		return err
	}
	return tui.Run(tui.Config{
		Dispatcher:  d,
		InitialMode: types.ModeRedBlackTree,
	})
*/
package tui
