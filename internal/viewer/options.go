package viewer

import (
	"fmt"
	"image"
)

// Action is a toolbar button
type Action int

const (
	ActionZoomIn Action = iota
	ActionZoomOut
	ActionOneToOne
	ActionReset
	ActionPrev
	ActionPlay
	ActionNext
	ActionRotateLeft
	ActionRotateRight
	ActionFlipHorizontal
	ActionFlipVertical
)

var actionNames = map[Action]string{
	ActionZoomIn:         "zoom in",
	ActionZoomOut:        "zoom out",
	ActionOneToOne:       "1:1",
	ActionReset:          "reset",
	ActionPrev:           "prev",
	ActionPlay:           "play",
	ActionNext:           "next",
	ActionRotateLeft:     "rotate left",
	ActionRotateRight:    "rotate right",
	ActionFlipHorizontal: "flip horizontal",
	ActionFlipVertical:   "flip vertical",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Toolbar lists which buttons the widget exposes
type Toolbar map[Action]bool

// Buttons returns the enabled actions in display order
func (t Toolbar) Buttons() []Action {
	var out []Action
	for a := ActionZoomIn; a <= ActionFlipVertical; a++ {
		if t[a] {
			out = append(out, a)
		}
	}
	return out
}

// Options is the widget configuration. It is fixed once the widget exists.
type Options struct {
	Fullscreen bool
	Inline     bool
	Navbar     bool
	Toolbar    Toolbar
	// Title formats the caption from the image's natural size
	Title func(natural image.Point) string
	// Viewed runs every time an image has been loaded and shown
	Viewed func(w *Widget)
}

// DefaultOptions returns the insertion viewer configuration: inline, no
// navbar, a size caption, zoom-only toolbar, and 100% zoom on every view.
func DefaultOptions() Options {
	return Options{
		Fullscreen: false,
		Inline:     true,
		Navbar:     false,
		Toolbar: Toolbar{
			ActionZoomIn:   true,
			ActionZoomOut:  true,
			ActionOneToOne: true,
			ActionReset:    true,
		},
		Title: func(natural image.Point) string {
			return fmt.Sprintf("(%d x %d)", natural.X, natural.Y)
		},
		Viewed: func(w *Widget) {
			w.ZoomTo(1)
		},
	}
}
