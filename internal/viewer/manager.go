// Package viewer owns the single image viewer of a controller session: the
// image element, the lazily created widget bound to it, and the data URI
// decoding behind both.
package viewer

import "log/slog"

// Manager creates the widget on the first image and refreshes it afterwards
type Manager struct {
	element *Element
	opts    Options
	widget  *Widget
	logger  *slog.Logger
}

// NewManager creates a manager with no widget yet
func NewManager(opts Options) *Manager {
	return &Manager{
		element: &Element{},
		opts:    opts,
		logger:  slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the manager's logger
func (m *Manager) WithLogger(l *slog.Logger) *Manager {
	m.logger = l
	return m
}

// Element returns the backing image element
func (m *Manager) Element() *Element {
	return m.element
}

// Widget returns the widget, if one has been created
func (m *Manager) Widget() (*Widget, bool) {
	return m.widget, m.widget != nil
}

// CreateOrRefresh points the element at uri, then builds the widget if none
// exists or refreshes the existing one. created reports which happened. A
// decode error does not prevent construction; the widget shows the error.
func (m *Manager) CreateOrRefresh(uri string) (created bool, err error) {
	m.element.Src = uri

	if m.widget == nil {
		m.widget = newWidget(m.element, m.opts)
		m.logger.Debug("viewer created", "natural", m.widget.Natural())
		return true, m.widget.Err()
	}

	err = m.widget.Update()
	m.logger.Debug("viewer refreshed", "natural", m.widget.Natural(), "views", m.widget.Views())
	return false, err
}
