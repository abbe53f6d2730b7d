package render

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/studiowebux/treeplot/internal/rangetree"
	"github.com/studiowebux/treeplot/internal/rbtree"
)

var (
	colorRedNode   = color.RGBA{R: 0xd3, G: 0x2f, B: 0x2f, A: 0xff}
	colorBlackNode = color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff}
	colorPointNode = color.RGBA{R: 0xe3, G: 0xf2, B: 0xfd, A: 0xff}
)

// FromRedBlack converts a red-black tree into drawable nodes
func FromRedBlack(t *rbtree.Tree) *Node {
	var conv func(n *rbtree.Node) *Node
	conv = func(n *rbtree.Node) *Node {
		if n == nil {
			return nil
		}
		fill := colorBlackNode
		if n.Red {
			fill = colorRedNode
		}
		return &Node{
			Label: strconv.FormatInt(n.Key, 10),
			Fill:  fill,
			Text:  color.White,
			Left:  conv(n.Left),
			Right: conv(n.Right),
		}
	}
	return conv(t.Root())
}

// FromRangeTree converts the primary tree of a 2D range tree
func FromRangeTree(t *rangetree.Tree) *Node {
	var conv func(n *rangetree.Node) *Node
	conv = func(n *rangetree.Node) *Node {
		if n == nil {
			return nil
		}
		return &Node{
			Label: fmt.Sprintf("(%d,%d)", n.Point.X, n.Point.Y),
			Fill:  colorPointNode,
			Text:  color.Black,
			Left:  conv(n.Left),
			Right: conv(n.Right),
		}
	}
	return conv(t.Root())
}
