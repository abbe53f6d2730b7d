package tui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/treeplot/internal/executor"
	"github.com/studiowebux/treeplot/internal/types"
)

// CreateTestModel creates a Model talking to handler, sized for rendering
func CreateTestModel(t *testing.T, handler http.Handler) *Model {
	t.Helper()

	if handler == nil {
		handler = http.NotFoundHandler()
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	d, err := executor.NewDispatcher(srv.URL, nil, executor.DefaultTimeout)
	if err != nil {
		t.Fatalf("Failed to create dispatcher: %v", err)
	}

	m, err := New(Config{
		Dispatcher:  d,
		InitialMode: types.ModeRedBlackTree,
		Version:     "test-version",
	})
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}
	t.Cleanup(m.Cleanup)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// TypeText feeds text to the model one rune at a time
func TypeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// PressKey sends a special key
func PressKey(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

// RunCmd executes cmd and feeds its message back into the model
func RunCmd(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("Expected a command, got nil")
	}
	m.Update(cmd())
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertNoError verifies that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

// AssertError verifies that an error occurred
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Error("Expected error but got nil")
	}
}
