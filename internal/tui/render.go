package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/studiowebux/treeplot/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}).
			Padding(0, 1)

	styleTab = lipgloss.NewStyle().
			Foreground(colorGray).
			Padding(0, 1)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// layout returns sidebar and viewer widths, borders included
func (m *Model) layout() (int, int) {
	sidebar := max(SidebarMinWidth, int(float64(m.width)*SidebarRatio))
	if sidebar > m.width/2 {
		sidebar = m.width / 2
	}
	return sidebar, m.width - sidebar
}

// renderMain renders the form/log column, the viewer pane and the footer
func (m *Model) renderMain() string {
	sidebarWidth, viewerWidth := m.layout()
	bodyHeight := m.height - FooterLines

	sidebarBorder, viewerBorder := colorGreen, colorGray
	if m.mode == ModeViewer {
		sidebarBorder, viewerBorder = colorGray, colorGreen
	}

	sidebar := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(sidebarBorder).
		Width(sidebarWidth - PanelBorderWidth).
		Height(bodyHeight - PanelBorderWidth).
		Render(m.renderSidebar(sidebarWidth - PanelBorderWidth))

	view := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(viewerBorder).
		Width(viewerWidth - PanelBorderWidth).
		Height(bodyHeight - PanelBorderWidth).
		Render(m.renderViewer(viewerWidth-PanelBorderWidth, bodyHeight-PanelBorderWidth))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, sidebar, view),
		m.renderStatusBar(),
		m.renderHelpLine(),
	)
}

// renderSidebar renders mode tabs, the visible form and the insertion log
func (m *Model) renderSidebar(width int) string {
	var lines []string

	var tabs []string
	for _, md := range []types.Mode{types.ModeRangeTree, types.ModeRedBlackTree} {
		if m.selector.Visible(md) {
			tabs = append(tabs, styleSelected.Render(md.Title()))
		} else {
			tabs = append(tabs, styleTab.Render(md.Title()))
		}
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, tabs...), "")

	for _, ti := range m.inputs[m.selector.Active()] {
		lines = append(lines, ti.View())
	}
	lines = append(lines, "")

	lines = append(lines, styleTitle.Render(fmt.Sprintf("Insertions (%d)", m.collector.Log().Len())))
	lines = append(lines, m.logView.View())

	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n"))
}

// renderLogContent renders log entries, most recent first
func (m *Model) renderLogContent() string {
	entries := m.collector.Log().Entries()
	if len(entries) == 0 {
		return styleSubtle.Render("No insertions yet")
	}

	var lines []string
	for _, e := range entries {
		tag := "k"
		if e.Mode == types.ModeRangeTree {
			tag = "p"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			styleSubtle.Render(fmt.Sprintf("#%-3d", e.Seq)),
			styleSubtle.Render(tag),
			e.Text,
		))
	}
	return strings.Join(lines, "\n")
}

// renderViewer renders the image widget with its title and toolbar
func (m *Model) renderViewer(width, height int) string {
	w, ok := m.viewerMgr.Widget()
	if !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			styleSubtle.Render("Insert a value to draw the tree"))
	}

	title := styleTitle.Render(w.Title()) + styleSubtle.Render(fmt.Sprintf("  %.0f%%", w.Ratio()*100))
	toolbar := styleSubtle.Render(w.ToolbarLine(m.keys.toolbarHints()))
	image := w.Render(width, max(1, height-ViewerChromeLines))

	return lipgloss.JoinVertical(lipgloss.Left, title, image, toolbar)
}

// renderStatusBar shows the active tree and the last response
func (m *Model) renderStatusBar() string {
	left := fmt.Sprintf("%s @ %s", m.selector.Active().Title(), m.dispatcher.BaseURL())
	if pending := m.requestState.Pending(); pending > 0 {
		left += styleWarning.Render(fmt.Sprintf("  %d in flight", pending))
	}

	right := ""
	if m.errorMsg != "" {
		right = styleError.Render(m.errorMsg)
	} else if m.statusMsg != "" {
		right = styleSuccess.Render(m.statusMsg)
	}
	if r := m.lastResult; r != nil {
		if right != "" {
			right += styleSubtle.Render(" | ")
		}
		right += styleSubtle.Render(fmt.Sprintf("%s in %s",
			humanize.Bytes(uint64(r.ResponseSize)),
			time.Duration(r.Duration)*time.Millisecond,
		))
	}

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}

	return left + strings.Repeat(" ", spacing) + right
}

func (m *Model) renderHelpLine() string {
	if m.mode == ModeViewer {
		return m.help.ShortHelpView(m.keys.viewerHelp())
	}
	return m.help.View(m.keys)
}

// renderAlert renders the pending message in a blocking box
func (m *Model) renderAlert() string {
	text := ""
	if len(m.alerts) > 0 {
		text = m.alerts[0]
	}

	footer := "enter: ok"
	if n := len(m.alerts); n > 1 {
		footer = fmt.Sprintf("enter: ok (%d more)", n-1)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorYellow).
		Padding(1, 2).
		Width(min(AlertWidth, m.width-PanelBorderWidth)).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			styleWarning.Render("Tree service says"),
			"",
			text,
			"",
			styleSubtle.Render(footer),
		))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderHelp renders the full key reference
func (m *Model) renderHelp() string {
	full := m.help
	full.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left,
		styleTitle.Render("treeplot "+m.version),
		"",
		full.View(m.keys),
		"",
		styleSubtle.Render("press any key to return"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// updateViewport resizes the log viewport after a window change
func (m *Model) updateViewport() {
	sidebarWidth, _ := m.layout()
	fields := len(m.inputs[m.selector.Active()])
	m.logView.Width = sidebarWidth - PanelBorderWidth
	m.logView.Height = max(1, m.height-FooterLines-PanelBorderWidth-SidebarHeaderLines-fields)
	m.updateLogView()
}

// updateLogView refreshes log content and scrolls to the newest entry
func (m *Model) updateLogView() {
	m.logView.SetContent(m.renderLogContent())
	m.logView.GotoTop()
}
