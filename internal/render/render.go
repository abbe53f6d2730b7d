// Package render draws binary trees as PNG images and encodes them as data
// URIs for the insertion endpoints.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Node is a drawable tree node
type Node struct {
	Label string
	Fill  color.Color
	Text  color.Color
	Left  *Node
	Right *Node
}

// Options controls spacing of the drawing, in pixels
type Options struct {
	GapWidth  int
	GapHeight int
	Padding   int
	FontSize  float64
}

// DefaultOptions mirrors the spacing of the original tree images
func DefaultOptions() Options {
	return Options{GapWidth: 4, GapHeight: 16, Padding: 8, FontSize: 12}
}

var (
	colorBackground = color.White
	colorEdge       = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	colorBorder     = color.Black
)

const (
	labelPadding = 4
	edgeWidth    = 1
)

var fontSource = sync.OnceValues(func() (*text.FontSource, error) {
	return text.NewFontSource(goregular.TTF)
})

func face(size float64) (text.Face, error) {
	src, err := fontSource()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	return src.Face(size), nil
}

type placed struct {
	node   *Node
	x, y   int // top-left of the label box
	w, h   int
	parent *placed
}

// layout positions every node: x by in-order rank, y by depth
func layout(root *Node, f text.Face, opts Options) ([]*placed, image.Point) {
	boxH := int(math.Ceil(f.Metrics().LineHeight())) + 2*labelPadding

	var nodes []*placed
	maxW := 0
	var visit func(n *Node, depth int, parent *placed)
	visit = func(n *Node, depth int, parent *placed) {
		if n == nil {
			return
		}
		p := &placed{node: n, parent: parent, h: boxH}
		visit(n.Left, depth+1, p)
		w, _ := text.Measure(n.Label, f)
		p.w = int(math.Ceil(w)) + 2*labelPadding
		p.y = opts.Padding + depth*(boxH+opts.GapHeight)
		maxW = max(maxW, p.w)
		nodes = append(nodes, p)
		visit(n.Right, depth+1, p)
	}
	visit(root, 0, nil)

	// nodes is in in-order; each gets a column of the widest label
	bottom := 0
	for i, p := range nodes {
		col := opts.Padding + i*(maxW+opts.GapWidth)
		p.x = col + (maxW-p.w)/2
		bottom = max(bottom, p.y+p.h)
	}
	width := 2*opts.Padding + len(nodes)*(maxW+opts.GapWidth) - opts.GapWidth
	return nodes, image.Pt(max(width, 1), max(bottom+opts.Padding, 1))
}

// Draw renders the tree rooted at root onto a new drawing context. The
// caller closes it.
func Draw(root *Node, opts Options) (*gg.Context, error) {
	f, err := face(opts.FontSize)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return drawText("(empty)", f, opts)
	}

	nodes, size := layout(root, f, opts)
	dc := gg.NewContext(size.X, size.Y)
	dc.SetFont(f)
	dc.ClearWithColor(gg.FromColor(colorBackground))

	dc.SetColor(colorEdge)
	dc.SetLineWidth(edgeWidth)
	for _, p := range nodes {
		if p.parent == nil {
			continue
		}
		px := float64(p.parent.x) + float64(p.parent.w)/2
		dc.DrawLine(px, float64(p.parent.y+p.parent.h), float64(p.x)+float64(p.w)/2, float64(p.y))
		if err := dc.Stroke(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("failed to draw edge: %w", err)
		}
	}
	for _, p := range nodes {
		if err := drawBox(dc, f, p); err != nil {
			dc.Close()
			return nil, err
		}
	}
	return dc, nil
}

func drawBox(dc *gg.Context, f text.Face, p *placed) error {
	x, y, w, h := float64(p.x), float64(p.y), float64(p.w), float64(p.h)
	fill := p.node.Fill
	if fill == nil {
		fill = color.White
	}

	dc.SetColor(colorBorder)
	dc.DrawRectangle(x, y, w, h)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("failed to draw node %s: %w", p.node.Label, err)
	}
	dc.SetColor(fill)
	dc.DrawRectangle(x+1, y+1, w-2, h-2)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("failed to draw node %s: %w", p.node.Label, err)
	}

	ink := p.node.Text
	if ink == nil {
		ink = color.Black
	}
	dc.SetColor(ink)
	drawLabel(dc, f, p.node.Label, x+w/2, y+labelPadding)
	return nil
}

// drawLabel centers label horizontally on cx with its top at y
func drawLabel(dc *gg.Context, f text.Face, label string, cx, y float64) {
	m := f.Metrics()
	dc.DrawStringAnchored(label, cx, y, 0.5, m.Ascent/m.LineHeight())
}

func drawText(msg string, f text.Face, opts Options) (*gg.Context, error) {
	w, h := text.Measure(msg, f)
	width := int(math.Ceil(w)) + 2*opts.Padding
	height := int(math.Ceil(h)) + 2*opts.Padding

	dc := gg.NewContext(width, height)
	dc.SetFont(f)
	dc.ClearWithColor(gg.FromColor(colorBackground))
	dc.SetColor(color.Black)
	drawLabel(dc, f, msg, float64(width)/2, float64(opts.Padding))
	return dc, nil
}

// EncodePNG renders root and returns the PNG bytes
func EncodePNG(root *Node, opts Options) ([]byte, error) {
	dc, err := Draw(root, opts)
	if err != nil {
		return nil, err
	}
	defer dc.Close()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI renders root and returns it as data:image/png;base64,...
func DataURI(root *Node, opts Options) (string, error) {
	data, err := EncodePNG(root, opts)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
