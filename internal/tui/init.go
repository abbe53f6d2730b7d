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

// Config holds everything the TUI needs from the command line
type Config struct {
	Dispatcher  *executor.Dispatcher
	InitialMode types.Mode
	DropStale   bool
	Logger      *slog.Logger
	Version     string
}

// New creates a new TUI model
func New(cfg Config) (*Model, error) {
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("tui: dispatcher is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		selector:     mode.NewSelector(cfg.InitialMode),
		collector:    collector.New(collector.NewInsertionLog()),
		dispatcher:   cfg.Dispatcher,
		viewerMgr:    viewer.NewManager(viewer.DefaultOptions()).WithLogger(logger),
		logger:       logger,
		mode:         ModeNormal,
		version:      cfg.Version,
		inputs:       newForms(),
		logView:      viewport.New(30, 10),
		ctx:          ctx,
		cancel:       cancel,
		requestState: NewRequestState(),
		keys:         defaultKeyMap(),
		help:         help.New(),
	}
	m.reconciler = reconcile.New(m.viewerMgr, m).WithLogger(logger).DropStale(cfg.DropStale)
	m.focusField(0)

	return m, nil
}

// newForms builds one text input per field of each mode
func newForms() map[types.Mode][]textinput.Model {
	forms := make(map[types.Mode][]textinput.Model, 2)
	for _, md := range []types.Mode{types.ModeRangeTree, types.ModeRedBlackTree} {
		var inputs []textinput.Model
		for _, field := range md.Fields() {
			ti := textinput.New()
			ti.Prompt = fmt.Sprintf("%s: ", field)
			ti.Placeholder = "integer"
			ti.Width = InputWidth
			inputs = append(inputs, ti)
		}
		forms[md] = inputs
	}
	return forms
}

// Run starts the TUI
func Run(cfg Config) error {
	m, err := New(cfg)
	if err != nil {
		return err
	}
	defer m.Cleanup()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
