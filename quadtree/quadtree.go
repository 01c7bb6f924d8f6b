// Package quadtree implements a point quad tree: each node anchors a single
// point and divides the plane around it into four quadrants, each holding a
// sub tree.
//
// A QuadTree is not safe for concurrent use; see package spatialindex for the
// locking expected of callers.
package quadtree

import (
	"github.com/ctessum/geom"
)

// Quadrants relative to a node's point. Coordinates equal to the node's fall
// on the greater side, so a point equal to the anchor goes into ne.
const (
	ne = iota // x >= anchor x, y >= anchor y
	nw        // x <  anchor x, y >= anchor y
	sw        // x <  anchor x, y <  anchor y
	se        // x >= anchor x, y <  anchor y
)

type nodeT[T any] struct {
	point    geom.Point
	value    T
	children [4]*nodeT[T]
}

// quadrant gives the child slot of n that p belongs to, comparing x first and
// then y.
func (n *nodeT[T]) quadrant(p geom.Point) int {
	if p.X >= n.point.X {
		if p.Y >= n.point.Y {
			return ne
		}
		return se
	}
	if p.Y >= n.point.Y {
		return nw
	}
	return sw
}

// QuadTree is a point quad tree holding values keyed by points. Its zero
// value is an empty tree.
type QuadTree[T comparable] struct {
	root  *nodeT[T]
	count int
}

// New creates an empty QuadTree.
func New[T comparable]() *QuadTree[T] {
	return &QuadTree[T]{}
}

// Len gives the number of points in the tree.
func (tr *QuadTree[T]) Len() int {
	return tr.count
}

// Clear removes all points from the tree.
func (tr *QuadTree[T]) Clear() {
	tr.root = nil
	tr.count = 0
}

// Put adds a value at point p. Points may be repeated.
func (tr *QuadTree[T]) Put(p geom.Point, value T) {
	tr.insert(&nodeT[T]{point: p, value: value})
	tr.count++
}

// insert links a detached node into the tree below the first empty quadrant
// slot on its path.
func (tr *QuadTree[T]) insert(nn *nodeT[T]) {
	if tr.root == nil {
		tr.root = nn
		return
	}
	n := tr.root
	for {
		q := n.quadrant(nn.point)
		if n.children[q] == nil {
			n.children[q] = nn
			return
		}
		n = n.children[q]
	}
}

// Remove removes a value stored at exactly (x, y). The returned bool
// indicates whether such a value was found. The points below the removed
// node are re-inserted so that every remaining point stays in the quadrant
// it belongs to.
func (tr *QuadTree[T]) Remove(x, y float64, value T) bool {
	p := geom.Point{X: x, Y: y}
	var parent *nodeT[T]
	slot := -1
	n := tr.root
	for n != nil {
		if n.point == p && n.value == value {
			break
		}
		parent, slot = n, n.quadrant(p)
		n = n.children[slot]
	}
	if n == nil {
		return false
	}

	if parent == nil {
		tr.root = nil
	} else {
		parent.children[slot] = nil
	}
	tr.count--

	// Re-insert breadth first, so that nodes near the top of the removed sub
	// tree stay near the top.
	queue := make([]*nodeT[T], 0, 4)
	for _, c := range n.children {
		if c != nil {
			queue = append(queue, c)
		}
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for i, cc := range c.children {
			if cc != nil {
				queue = append(queue, cc)
				c.children[i] = nil
			}
		}
		tr.insert(c)
	}
	return true
}
