// Package mode holds the page-wide structure selection and the visibility of
// the two input forms that follows from it.
package mode

import "github.com/studiowebux/treeplot/internal/types"

// Selector tracks the active mode. Exactly one form is visible at a time.
type Selector struct {
	active  types.Mode
	visible map[types.Mode]bool
}

// NewSelector creates a selector with initial visible
func NewSelector(initial types.Mode) *Selector {
	s := &Selector{visible: make(map[types.Mode]bool, 2)}
	s.Select(initial)
	return s
}

// Select shows the form for m and hides the other one. Selecting the active
// mode again changes nothing.
func (s *Selector) Select(m types.Mode) {
	s.active = m
	s.visible[m] = true
	s.visible[m.Other()] = false
}

// Toggle switches to the other mode and returns it
func (s *Selector) Toggle() types.Mode {
	s.Select(s.active.Other())
	return s.active
}

// Active returns the selected mode
func (s *Selector) Active() types.Mode {
	return s.active
}

// Visible reports whether the form for m is shown
func (s *Selector) Visible(m types.Mode) bool {
	return s.visible[m]
}
