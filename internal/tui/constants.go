package tui

import "time"

// UI Layout Constants

const (
	// Left column holding mode tabs, form and insertion log
	SidebarMinWidth = 32
	SidebarRatio    = 0.35

	// InputWidth is the text input width inside the form
	InputWidth = 20

	// Lines above the log inside the sidebar, not counting form fields
	SidebarHeaderLines = 4

	// Viewer pane: title line and toolbar line
	ViewerChromeLines = 2

	// Borders and status/help lines
	PanelBorderWidth = 2
	FooterLines      = 2

	// AlertWidth is the maximum width of the alert box
	AlertWidth = 60

	// PanStep is how far one arrow key moves the image, in pixels
	PanStep = 8

	// StatusClearDelay hides transient status messages
	StatusClearDelay = 3 * time.Second
)
