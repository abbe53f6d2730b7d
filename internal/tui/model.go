package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/treeplot/internal/collector"
	"github.com/studiowebux/treeplot/internal/executor"
	"github.com/studiowebux/treeplot/internal/mode"
	"github.com/studiowebux/treeplot/internal/reconcile"
	"github.com/studiowebux/treeplot/internal/types"
	"github.com/studiowebux/treeplot/internal/viewer"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota // typing into the visible form
	ModeViewer             // viewer pane focused, toolbar keys active
	ModeAlert              // blocking message from the tree service
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeViewer:
		return "viewer"
	case ModeAlert:
		return "alert"
	case ModeHelp:
		return "help"
	default:
		return "normal"
	}
}

// Model represents the TUI state
type Model struct {
	// Core components
	selector   *mode.Selector
	collector  *collector.Collector
	dispatcher *executor.Dispatcher
	viewerMgr  *viewer.Manager
	reconciler *reconcile.Reconciler
	logger     *slog.Logger

	mode    Mode
	version string

	// Forms, one per tree mode
	inputs   map[types.Mode][]textinput.Model
	focusIdx int

	// Insertion log
	logView viewport.Model

	// Alerts queue up while one is shown
	alerts []string

	// Request lifecycle
	ctx          context.Context
	cancel       context.CancelFunc
	requestState *RequestState
	lastResult   *types.RequestResult

	// UI state
	keys      keyMap
	help      help.Model
	width     int
	height    int
	statusMsg string
	errorMsg  string
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Cleanup cancels outstanding requests
func (m *Model) Cleanup() {
	m.requestState.CancelAll()
	if m.cancel != nil {
		m.cancel()
	}
}

// Alert queues a blocking message; it satisfies reconcile.Alerter
func (m *Model) Alert(text string) {
	m.alerts = append(m.alerts, text)
	m.mode = ModeAlert
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewport()

	case responseMsg:
		m.handleResponse(msg)

	case clearStatusMsg:
		m.statusMsg = ""

	case errorMsg:
		m.errorMsg = string(msg)

	case statusMsg:
		m.statusMsg = string(msg)
		m.errorMsg = ""
	}

	return m, cmd
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ModeAlert:
		return m.renderAlert()
	case ModeHelp:
		return m.renderHelp()
	default:
		return m.renderMain()
	}
}

// handleResponse reconciles a finished request inside the update loop
func (m *Model) handleResponse(msg responseMsg) {
	m.requestState.Done(msg.seq)

	if msg.err != nil {
		m.logger.Debug("request not sent", "seq", msg.seq, "error", msg.err)
		return
	}

	outcome, effect := m.reconciler.Handle(msg.result)
	m.logger.Info("response",
		"seq", msg.seq,
		"outcome", outcome.Kind.String(),
		"effect", effect.String(),
		"status", msg.result.Status,
		"ms", msg.result.Duration,
	)

	switch effect {
	case reconcile.EffectViewerCreated, reconcile.EffectViewerRefreshed:
		m.lastResult = msg.result
		m.statusMsg = fmt.Sprintf("#%d %s", msg.seq, effect)
		m.errorMsg = ""
		if w, ok := m.viewerMgr.Widget(); ok && w.Err() != nil {
			m.errorMsg = w.Err().Error()
		}
	}
}

// Messages
type responseMsg struct {
	seq    uint64
	result *types.RequestResult
	err    error
}

type clearStatusMsg struct{}

type errorMsg string

type statusMsg string
