package rtree

import (
	"github.com/ctessum/geom"

	"github.com/peterstace/spatialindex"
)

// Put adds a new value to the RTree. It is the same as Insert.
func (t *RTree[T]) Put(bb geom.Bounds, value T) {
	t.Insert(bb, value)
}

// Insert adds a new value to the RTree. Any envelope is accepted, including
// ones with zero area.
func (t *RTree[T]) Insert(bb geom.Bounds, value T) {
	leaf, path := t.chooseLeafNode(bb)
	leaf.entries = append(leaf.entries, Entry[T]{BBox: bb, Value: value})
	leaf.bounds = spatialindex.Union(leaf.bounds, bb)
	t.count++

	if len(leaf.entries) <= t.maxEntries {
		return
	}
	n1, n2 := t.splitNode(leaf)
	t.adjustTree(path, leaf, n1, n2)
}

// chooseLeafNode descends from the root to the leaf that needs the least
// enlargement to hold bb. The bounds of each branch passed through are
// expanded to include bb on the way down. The returned path holds the
// branches from the root down to the leaf's parent.
func (t *RTree[T]) chooseLeafNode(bb geom.Bounds) (*node[T], []*node[T]) {
	var path []*node[T]
	n := t.root
	for !n.isLeaf {
		n.bounds = spatialindex.Union(n.bounds, bb)
		path = append(path, n)

		bestDelta := spatialindex.Enlargement(n.children[0].bounds, bb)
		bestChild := 0
		for i := 1; i < len(n.children); i++ {
			child := n.children[i]
			delta := spatialindex.Enlargement(child.bounds, bb)
			if delta < bestDelta {
				bestDelta = delta
				bestChild = i
			} else if delta == bestDelta && spatialindex.Area(child.bounds) < spatialindex.Area(n.children[bestChild].bounds) {
				// Area is used as a tie breaker if the enlargements are the same.
				bestChild = i
			}
		}
		n = n.children[bestChild]
	}
	return n, path
}

// adjustTree replaces old with the nodes n1 and n2 that it was split into,
// working up the path and splitting any parents that overflow as a result.
func (t *RTree[T]) adjustTree(path []*node[T], old, n1, n2 *node[T]) {
	for {
		if len(path) == 0 {
			t.joinRoots(n1, n2)
			return
		}
		parent := path[len(path)-1]
		path = path[:len(path)-1]

		replaceChild(parent, old, n1, n2)
		if len(parent.children) <= t.maxEntries {
			return
		}
		old = parent
		n1, n2 = t.splitNode(parent)
	}
}

// replaceChild substitutes n1 and n2 for old in parent's children, keeping
// n1 in old's position. The parent's bounds are unchanged because n1 and n2
// hold exactly the members that old did.
func replaceChild[T any](parent, old, n1, n2 *node[T]) {
	for i, c := range parent.children {
		if c != old {
			continue
		}
		parent.children[i] = n1
		parent.children = append(parent.children, nil)
		copy(parent.children[i+2:], parent.children[i+1:])
		parent.children[i+1] = n2
		return
	}
	panic("rtree: split node is not a child of its parent")
}

func (t *RTree[T]) joinRoots(r1, r2 *node[T]) {
	root := &node[T]{
		isLeaf:   false,
		children: []*node[T]{r1, r2},
	}
	root.recalculate()
	t.root = root
}
