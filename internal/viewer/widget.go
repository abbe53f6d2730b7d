package viewer

import (
	"fmt"
	"image"
	"math"
)

const (
	zoomStep = 0.1
	minRatio = 0.01
	maxRatio = 100
)

// Element is the image element the widget is bound to
type Element struct {
	Src string
}

// Widget displays the image of its element with zoom and pan state
type Widget struct {
	element *Element
	opts    Options

	img     image.Image
	natural image.Point
	loadErr error

	ratio     float64
	prevRatio float64
	offsetX   int
	offsetY   int
	views     int
}

// newWidget binds a widget to el and shows its current image
func newWidget(el *Element, opts Options) *Widget {
	w := &Widget{element: el, opts: opts, ratio: 1}
	w.load()
	return w
}

// Update re-reads the element's source and shows it again. Zoom state is
// kept unless the viewed hook changes it.
func (w *Widget) Update() error {
	return w.load()
}

func (w *Widget) load() error {
	img, err := DecodeImage(w.element.Src)
	if err != nil {
		w.img = nil
		w.natural = image.Point{}
		w.loadErr = err
		return err
	}
	w.img = img
	w.natural = img.Bounds().Size()
	w.loadErr = nil
	w.views++
	if w.opts.Viewed != nil {
		w.opts.Viewed(w)
	}
	return nil
}

// Err returns the error from the last load, if any
func (w *Widget) Err() error {
	return w.loadErr
}

// Image returns the decoded image, nil if the last load failed
func (w *Widget) Image() image.Image {
	return w.img
}

// Natural returns the image's pixel dimensions
func (w *Widget) Natural() image.Point {
	return w.natural
}

// Views returns how many images this widget has shown
func (w *Widget) Views() int {
	return w.views
}

// Options returns the widget configuration
func (w *Widget) Options() Options {
	return w.opts
}

// Title returns the caption for the current image
func (w *Widget) Title() string {
	if w.opts.Title == nil || w.img == nil {
		return ""
	}
	return w.opts.Title(w.natural)
}

// Ratio returns the current zoom ratio (1 is 100%)
func (w *Widget) Ratio() float64 {
	return w.ratio
}

// Offset returns the pan offset in display pixels
func (w *Widget) Offset() (int, int) {
	return w.offsetX, w.offsetY
}

// ZoomTo sets an absolute zoom ratio
func (w *Widget) ZoomTo(ratio float64) {
	w.ratio = math.Max(minRatio, math.Min(maxRatio, ratio))
}

// Zoom changes the ratio by a relative step, e.g. 0.1 for +10%
func (w *Widget) Zoom(step float64) {
	w.ZoomTo(w.ratio * (1 + step))
}

// Move pans the image by dx, dy display pixels
func (w *Widget) Move(dx, dy int) {
	w.offsetX += dx
	w.offsetY += dy
}

// Invoke runs a toolbar action. Actions missing from the toolbar are
// rejected.
func (w *Widget) Invoke(a Action) error {
	if !w.opts.Toolbar[a] {
		return fmt.Errorf("toolbar action %s is not enabled", a)
	}
	switch a {
	case ActionZoomIn:
		w.Zoom(zoomStep)
	case ActionZoomOut:
		w.Zoom(-zoomStep)
	case ActionOneToOne:
		if w.ratio == 1 && w.prevRatio != 0 {
			w.ZoomTo(w.prevRatio)
			w.prevRatio = 0
		} else {
			w.prevRatio = w.ratio
			w.ZoomTo(1)
		}
	case ActionReset:
		w.prevRatio = 0
		w.offsetX, w.offsetY = 0, 0
		w.ZoomTo(1)
	default:
		return fmt.Errorf("toolbar action %s is not supported", a)
	}
	return nil
}
