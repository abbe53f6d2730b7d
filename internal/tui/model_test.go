package tui

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/treeplot/internal/server"
	"github.com/studiowebux/treeplot/internal/types"
)

// recorder wraps a handler and keeps the requests it saw
type recorder struct {
	mu      sync.Mutex
	paths   []string
	bodies  []string
	handler http.Handler
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	r.paths = append(r.paths, req.URL.Path)
	r.bodies = append(r.bodies, string(body))
	r.mu.Unlock()
	req.Body = io.NopCloser(strings.NewReader(string(body)))
	r.handler.ServeHTTP(w, req)
}

func newTreeService() *recorder {
	return &recorder{handler: server.NewServer(&server.Config{}).Handler()}
}

func textHandler(status int, body string) *recorder {
	return &recorder{handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	})}
}

func TestNew_InitializesDefaultMode(t *testing.T) {
	m := CreateTestModel(t, nil)

	AssertModelField(t, "mode", m.mode, ModeNormal)
	AssertModelField(t, "active tree", m.selector.Active(), types.ModeRedBlackTree)
	AssertModelField(t, "focusIdx", m.focusIdx, 0)
	AssertModelField(t, "k focused", m.inputs[types.ModeRedBlackTree][0].Focused(), true)
	AssertModelField(t, "version", m.version, "test-version")

	if _, ok := m.viewerMgr.Widget(); ok {
		t.Error("No widget should exist before the first image")
	}
}

func TestNew_RequiresDispatcher(t *testing.T) {
	_, err := New(Config{})
	AssertError(t, err)
}

func TestSubmit_RedBlack(t *testing.T) {
	svc := newTreeService()
	m := CreateTestModel(t, svc)

	TypeText(m, "42")
	cmd := PressKey(m, tea.KeyEnter)

	// Logged before the response arrives
	entries := m.collector.Log().Entries()
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}
	AssertModelField(t, "entry text", entries[0].Text, "42")
	AssertModelField(t, "k after submit", m.inputs[types.ModeRedBlackTree][0].Value(), "")
	AssertModelField(t, "k focused", m.inputs[types.ModeRedBlackTree][0].Focused(), true)
	AssertModelField(t, "pending", m.requestState.Pending(), 1)

	RunCmd(t, m, cmd)

	AssertModelField(t, "path", svc.paths[0], types.EndpointRedBlackTree)
	AssertModelField(t, "body", svc.bodies[0], "k=42")
	AssertModelField(t, "pending", m.requestState.Pending(), 0)

	w, ok := m.viewerMgr.Widget()
	if !ok {
		t.Fatal("Expected the first image to create the widget")
	}
	AssertNoError(t, w.Err())
	AssertModelField(t, "ratio", w.Ratio(), 1.0)
	if !strings.HasPrefix(m.viewerMgr.Element().Src, "data:image") {
		t.Error("Element source should hold the image data URI")
	}
}

func TestSubmit_RangeTree(t *testing.T) {
	svc := newTreeService()
	m := CreateTestModel(t, svc)

	PressKey(m, tea.KeyCtrlT)
	AssertModelField(t, "active tree", m.selector.Active(), types.ModeRangeTree)

	TypeText(m, "1")
	PressKey(m, tea.KeyTab)
	TypeText(m, "2")
	cmd := PressKey(m, tea.KeyEnter)

	entries := m.collector.Log().Entries()
	AssertModelField(t, "entry text", entries[0].Text, "(1, 2)")
	for i, ti := range m.inputs[types.ModeRangeTree] {
		AssertModelField(t, "field "+types.ModeRangeTree.Fields()[i], ti.Value(), "")
	}

	RunCmd(t, m, cmd)
	AssertModelField(t, "path", svc.paths[0], types.EndpointRangeTree)
	AssertModelField(t, "body", svc.bodies[0], "x=1&y=2")
}

func TestSubmit_SecondImageRefreshesSameWidget(t *testing.T) {
	m := CreateTestModel(t, newTreeService())

	TypeText(m, "1")
	RunCmd(t, m, PressKey(m, tea.KeyEnter))
	first, _ := m.viewerMgr.Widget()
	firstSrc := m.viewerMgr.Element().Src

	TypeText(m, "2")
	RunCmd(t, m, PressKey(m, tea.KeyEnter))
	second, _ := m.viewerMgr.Widget()

	if first != second {
		t.Error("Expected the widget to be reused")
	}
	AssertModelField(t, "views", second.Views(), 2)
	if m.viewerMgr.Element().Src == firstSrc {
		t.Error("Element source should change after the second image")
	}
}

func TestSubmit_NonNumericSendsNaNAndAlerts(t *testing.T) {
	svc := newTreeService()
	m := CreateTestModel(t, svc)

	TypeText(m, "abc")
	cmd := PressKey(m, tea.KeyEnter)
	AssertModelField(t, "entry text", m.collector.Log().Entries()[0].Text, "abc")

	RunCmd(t, m, cmd)
	AssertModelField(t, "body", svc.bodies[0], "k=NaN")
	AssertModelField(t, "mode", m.mode, ModeAlert)
	AssertModelField(t, "alert", m.alerts[0], server.MessageInvalidKey)
	AssertModelField(t, "element src", m.viewerMgr.Element().Src, "")

	if !strings.Contains(m.View(), server.MessageInvalidKey) {
		t.Error("Alert view should show the message")
	}

	// Typing is blocked while the alert is up
	TypeText(m, "5")
	AssertModelField(t, "k while alerting", m.inputs[types.ModeRedBlackTree][0].Value(), "")

	PressKey(m, tea.KeyEnter)
	AssertModelField(t, "mode after dismiss", m.mode, ModeNormal)
	AssertModelField(t, "log length", m.collector.Log().Len(), 1)
}

func TestSubmit_LongInputIsLoggedInFull(t *testing.T) {
	svc := newTreeService()
	m := CreateTestModel(t, svc)

	long := strings.Repeat("notanumber", 6)
	TypeText(m, long)
	cmd := PressKey(m, tea.KeyEnter)
	AssertModelField(t, "entry text", m.collector.Log().Entries()[0].Text, long)

	RunCmd(t, m, cmd)
	AssertModelField(t, "body", svc.bodies[0], "k=NaN")
}

func TestAlerts_Queue(t *testing.T) {
	m := CreateTestModel(t, textHandler(http.StatusOK, "Invalid key"))

	TypeText(m, "x")
	c1 := PressKey(m, tea.KeyEnter)
	TypeText(m, "y")
	c2 := PressKey(m, tea.KeyEnter)
	RunCmd(t, m, c1)
	RunCmd(t, m, c2)

	AssertModelField(t, "queued alerts", len(m.alerts), 2)
	PressKey(m, tea.KeyEnter)
	AssertModelField(t, "mode", m.mode, ModeAlert)
	PressKey(m, tea.KeyEsc)
	AssertModelField(t, "mode", m.mode, ModeNormal)
}

func TestTransportErrorIsSilent(t *testing.T) {
	m := CreateTestModel(t, textHandler(http.StatusInternalServerError, "boom"))

	TypeText(m, "1")
	RunCmd(t, m, PressKey(m, tea.KeyEnter))

	AssertModelField(t, "mode", m.mode, ModeNormal)
	AssertModelField(t, "alerts", len(m.alerts), 0)
	AssertModelField(t, "errorMsg", m.errorMsg, "")
	if _, ok := m.viewerMgr.Widget(); ok {
		t.Error("A failed request must not create the widget")
	}
	// The optimistic entry stays
	AssertModelField(t, "log length", m.collector.Log().Len(), 1)
}

func TestToggleTree_Twice(t *testing.T) {
	m := CreateTestModel(t, nil)

	PressKey(m, tea.KeyCtrlT)
	AssertModelField(t, "range visible", m.selector.Visible(types.ModeRangeTree), true)
	AssertModelField(t, "rb visible", m.selector.Visible(types.ModeRedBlackTree), false)

	PressKey(m, tea.KeyCtrlT)
	AssertModelField(t, "active tree", m.selector.Active(), types.ModeRedBlackTree)
	AssertModelField(t, "range visible", m.selector.Visible(types.ModeRangeTree), false)
	AssertModelField(t, "rb visible", m.selector.Visible(types.ModeRedBlackTree), true)
}

func TestViewerKeys(t *testing.T) {
	m := CreateTestModel(t, newTreeService())
	TypeText(m, "9")
	RunCmd(t, m, PressKey(m, tea.KeyEnter))

	PressKey(m, tea.KeyEsc)
	AssertModelField(t, "mode", m.mode, ModeViewer)

	w, _ := m.viewerMgr.Widget()
	TypeText(m, "+")
	if w.Ratio() <= 1 {
		t.Errorf("ratio = %v, want > 1 after zoom in", w.Ratio())
	}
	TypeText(m, "l")
	if x, _ := w.Offset(); x != -PanStep {
		t.Errorf("offset x = %d, want %d", x, -PanStep)
	}
	TypeText(m, "0")
	AssertModelField(t, "ratio after reset", w.Ratio(), 1.0)
	if x, y := w.Offset(); x != 0 || y != 0 {
		t.Errorf("offset = (%d, %d), want (0, 0)", x, y)
	}

	TypeText(m, "i")
	AssertModelField(t, "mode", m.mode, ModeNormal)
}

func TestView_Renders(t *testing.T) {
	m := CreateTestModel(t, newTreeService())

	view := m.View()
	if !strings.Contains(view, "Insertions (0)") {
		t.Error("Main view should show the empty log")
	}

	TypeText(m, "3")
	RunCmd(t, m, PressKey(m, tea.KeyEnter))
	view = m.View()
	if !strings.Contains(view, "Insertions (1)") {
		t.Error("Main view should count the insertion")
	}
	if !strings.Contains(view, "zoom in") {
		t.Error("Viewer toolbar should be shown")
	}

	TypeText(m, "?")
	AssertModelField(t, "mode", m.mode, ModeHelp)
	if !strings.Contains(m.View(), "copy log") {
		t.Error("Help should list all bindings")
	}
}
