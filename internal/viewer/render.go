package viewer

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const upperHalfBlock = "▀"

// Render draws the current image into a width x height cell area. Each cell
// carries two vertical pixels: the upper one as foreground of a half block,
// the lower one as background.
func (w *Widget) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if w.img == nil {
		msg := "no image"
		if w.loadErr != nil {
			msg = w.loadErr.Error()
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
	}

	viewW, viewH := width, height*2
	dispW := float64(w.natural.X) * w.ratio
	dispH := float64(w.natural.Y) * w.ratio
	originX := (float64(viewW)-dispW)/2 + float64(w.offsetX)
	originY := (float64(viewH)-dispH)/2 + float64(w.offsetY)

	bounds := w.img.Bounds()
	sample := func(px, py int) (color.Color, bool) {
		ix := int((float64(px) - originX) / w.ratio)
		iy := int((float64(py) - originY) / w.ratio)
		if float64(px) < originX || float64(py) < originY || ix >= w.natural.X || iy >= w.natural.Y {
			return nil, false
		}
		return w.img.At(bounds.Min.X+ix, bounds.Min.Y+iy), true
	}

	var b strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			top, topOK := sample(col, row*2)
			bottom, bottomOK := sample(col, row*2+1)
			if !topOK && !bottomOK {
				b.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle()
			if topOK {
				style = style.Foreground(hexColor(top))
			}
			if bottomOK {
				style = style.Background(hexColor(bottom))
			}
			b.WriteString(style.Render(upperHalfBlock))
		}
		if row < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ToolbarLine renders the enabled toolbar buttons with their key hints
func (w *Widget) ToolbarLine(hints map[Action]string) string {
	var parts []string
	for _, a := range w.opts.Toolbar.Buttons() {
		label := a.String()
		if h, ok := hints[a]; ok {
			label = fmt.Sprintf("[%s] %s", h, label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func hexColor(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
