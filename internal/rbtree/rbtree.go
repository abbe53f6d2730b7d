// Package rbtree implements a red-black tree over int64 keys with top-down
// 2-3-4 insertion: 4-nodes are split on the way down and rotations balance
// the tree on the way back up.
package rbtree

// Node is a tree node. Nodes are read-only outside the package.
type Node struct {
	Key   int64
	Red   bool
	Left  *Node
	Right *Node
}

func isRed(n *Node) bool {
	return n != nil && n.Red
}

// Tree is a red-black tree. The zero value is an empty tree.
type Tree struct {
	root *Node
	size int
}

// New creates a tree holding keys, inserted in order
func New(keys ...int64) *Tree {
	t := &Tree{}
	for _, k := range keys {
		t.Insert(k)
	}
	return t
}

// Root returns the root node, nil for an empty tree
func (t *Tree) Root() *Node {
	return t.root
}

// Len returns the number of distinct keys
func (t *Tree) Len() int {
	return t.size
}

// Insert adds key. Inserting an existing key replaces it in place and
// reports false.
func (t *Tree) Insert(key int64) bool {
	var added bool
	t.root = t.insert(t.root, key, &added)
	t.root.Red = false
	if added {
		t.size++
	}
	return added
}

func (t *Tree) insert(n *Node, key int64, added *bool) *Node {
	if n == nil {
		*added = true
		return &Node{Key: key, Red: true}
	}

	// split 4-nodes on the way down
	if isRed(n.Left) && isRed(n.Right) {
		n.Left.Red = false
		n.Right.Red = false
		n.Red = true
	}

	switch {
	case key < n.Key:
		n.Left = t.insert(n.Left, key, added)
	case key > n.Key:
		n.Right = t.insert(n.Right, key, added)
	default:
		n.Key = key
	}

	// 3-nodes may lean either way; only unbalanced 4-nodes are rotated
	if isRed(n.Left) {
		if isRed(n.Left.Left) {
			n = centerLeft(n)
		} else if isRed(n.Left.Right) {
			n.Left = rotateLeft(n.Left)
			n = centerLeft(n)
		}
	} else if isRed(n.Right) {
		if isRed(n.Right.Left) {
			n.Right = rotateRight(n.Right)
			n = centerRight(n)
		} else if isRed(n.Right.Right) {
			n = centerRight(n)
		}
	}
	return n
}

func centerLeft(n *Node) *Node {
	n = rotateRight(n)
	n.Red = false
	n.Right.Red = true
	return n
}

func centerRight(n *Node) *Node {
	n = rotateLeft(n)
	n.Red = false
	n.Left.Red = true
	return n
}

func rotateRight(n *Node) *Node {
	l := n.Left
	n.Left = l.Right
	l.Right = n
	return l
}

func rotateLeft(n *Node) *Node {
	r := n.Right
	n.Right = r.Left
	r.Left = n
	return r
}

// Contains reports whether key is in the tree
func (t *Tree) Contains(key int64) bool {
	n := t.root
	for n != nil {
		switch {
		case key < n.Key:
			n = n.Left
		case key > n.Key:
			n = n.Right
		default:
			return true
		}
	}
	return false
}

// Successor returns the smallest key strictly greater than key
func (t *Tree) Successor(key int64) (int64, bool) {
	var best *Node
	n := t.root
	for n != nil {
		if n.Key > key {
			best = n
			n = n.Left
		} else {
			n = n.Right
		}
	}
	if best == nil {
		return 0, false
	}
	return best.Key, true
}

// Height returns the number of levels, 0 for an empty tree
func (t *Tree) Height() int {
	return height(t.root)
}

func height(n *Node) int {
	if n == nil {
		return 0
	}
	return 1 + max(height(n.Left), height(n.Right))
}

// Walk visits keys in ascending order until fn returns false
func (t *Tree) Walk(fn func(n *Node) bool) {
	walk(t.root, fn)
}

func walk(n *Node, fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	return walk(n.Left, fn) && fn(n) && walk(n.Right, fn)
}

// Keys returns all keys in ascending order
func (t *Tree) Keys() []int64 {
	keys := make([]int64, 0, t.size)
	t.Walk(func(n *Node) bool {
		keys = append(keys, n.Key)
		return true
	})
	return keys
}
