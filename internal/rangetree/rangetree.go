// Package rangetree implements a 2D range tree over integer points. The
// primary tree is a balanced binary search tree on x; every node keeps the
// points of its subtree sorted by y, so a rectangle query costs
// O(log² n + k).
//
// Insertions rebuild the tree, which keeps it perfectly balanced at
// O(n log n) per insert. Duplicate points are stored as given.
package rangetree

import (
	"sort"
)

// Point is a 2D point
type Point struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// Node is a node of the primary (x) tree
type Node struct {
	Point Point
	MinX  int64
	MaxX  int64
	Left  *Node
	Right *Node
	// ByY holds every point of the subtree ordered by y, then x
	ByY []Point
}

// Tree is a 2D range tree. The zero value is an empty tree.
type Tree struct {
	points []Point
	root   *Node
}

// New builds a tree from points
func New(points ...Point) *Tree {
	t := &Tree{points: append([]Point(nil), points...)}
	t.rebuild()
	return t
}

// Insert adds p and rebuilds the tree
func (t *Tree) Insert(p Point) {
	t.points = append(t.points, p)
	t.rebuild()
}

// Len returns the number of stored points
func (t *Tree) Len() int {
	return len(t.points)
}

// Root returns the root of the primary tree
func (t *Tree) Root() *Node {
	return t.root
}

// Points returns the points in insertion order
func (t *Tree) Points() []Point {
	return append([]Point(nil), t.points...)
}

// Height returns the number of levels of the primary tree
func (t *Tree) Height() int {
	return height(t.root)
}

func height(n *Node) int {
	if n == nil {
		return 0
	}
	return 1 + max(height(n.Left), height(n.Right))
}

func lessX(a, b Point) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func lessY(a, b Point) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

func (t *Tree) rebuild() {
	sorted := append([]Point(nil), t.points...)
	sort.SliceStable(sorted, func(i, j int) bool { return lessX(sorted[i], sorted[j]) })
	t.root = build(sorted)
}

func build(sorted []Point) *Node {
	if len(sorted) == 0 {
		return nil
	}
	mid := len(sorted) / 2
	n := &Node{
		Point: sorted[mid],
		MinX:  sorted[0].X,
		MaxX:  sorted[len(sorted)-1].X,
		Left:  build(sorted[:mid]),
		Right: build(sorted[mid+1:]),
	}
	n.ByY = mergeByY(n.Left, n.Right, n.Point)
	return n
}

func mergeByY(left, right *Node, own Point) []Point {
	var a, b []Point
	if left != nil {
		a = left.ByY
	}
	if right != nil {
		b = right.ByY
	}
	out := make([]Point, 0, len(a)+len(b)+1)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if lessY(b[j], a[i]) {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)

	pos := sort.Search(len(out), func(k int) bool { return !lessY(out[k], own) })
	out = append(out, Point{})
	copy(out[pos+1:], out[pos:])
	out[pos] = own
	return out
}

// Query returns the points with x1 <= x <= x2 and y1 <= y <= y2, ordered by
// y then x
func (t *Tree) Query(x1, x2, y1, y2 int64) []Point {
	if x1 > x2 || y1 > y2 {
		return nil
	}
	var out []Point
	query(t.root, x1, x2, y1, y2, &out)
	sort.SliceStable(out, func(i, j int) bool { return lessY(out[i], out[j]) })
	return out
}

func query(n *Node, x1, x2, y1, y2 int64, out *[]Point) {
	if n == nil || n.MaxX < x1 || n.MinX > x2 {
		return
	}
	if x1 <= n.MinX && n.MaxX <= x2 {
		lo := sort.Search(len(n.ByY), func(i int) bool { return n.ByY[i].Y >= y1 })
		for i := lo; i < len(n.ByY) && n.ByY[i].Y <= y2; i++ {
			*out = append(*out, n.ByY[i])
		}
		return
	}
	p := n.Point
	if p.X >= x1 && p.X <= x2 && p.Y >= y1 && p.Y <= y2 {
		*out = append(*out, p)
	}
	query(n.Left, x1, x2, y1, y2, out)
	query(n.Right, x1, x2, y1, y2, out)
}
