package rtree

import (
	"github.com/ctessum/geom"

	"github.com/peterstace/spatialindex"
)

// Remove removes a single entry with an envelope equal to bb and a value
// equal to value. The returned bool indicates whether or not the entry could
// be found and thus removed.
//
// Nodes are not merged or rebalanced after a removal. A node left empty is
// detached from its parent, but otherwise nodes keep their place in the tree
// however few members they have left.
func (t *RTree[T]) Remove(bb geom.Bounds, value T) bool {
	leaf, idx, path := t.findEntry(bb, value)
	if leaf == nil {
		return false
	}
	leaf.entries = append(leaf.entries[:idx], leaf.entries[idx+1:]...)
	t.count--
	t.condenseTree(path, leaf)
	return true
}

// findEntry finds the leaf holding the entry, the entry's index in that leaf,
// and the path of branches from the root down to the leaf's parent. Only
// nodes whose bounds contain bb are searched.
func (t *RTree[T]) findEntry(bb geom.Bounds, value T) (*node[T], int, []*node[T]) {
	var path []*node[T]
	var recurse func(*node[T]) (*node[T], int)
	recurse = func(n *node[T]) (*node[T], int) {
		if !spatialindex.Contains(n.bounds, bb) {
			return nil, -1
		}
		if n.isLeaf {
			for i := range n.entries {
				if n.entries[i].BBox == bb && n.entries[i].Value == value {
					return n, i
				}
			}
			return nil, -1
		}
		path = append(path, n)
		for _, child := range n.children {
			if leaf, idx := recurse(child); leaf != nil {
				return leaf, idx
			}
		}
		path = path[:len(path)-1]
		return nil, -1
	}
	leaf, idx := recurse(t.root)
	return leaf, idx, path
}

// condenseTree recalculates bounds from n up to the root after n has lost a
// member, detaching any node that was left empty.
func (t *RTree[T]) condenseTree(path []*node[T], n *node[T]) {
	n.recalculate()
	for i := len(path) - 1; i >= 0; i-- {
		parent := path[i]
		if n.size() == 0 {
			detachChild(parent, n)
		}
		parent.recalculate()
		n = parent
	}
	if !t.root.isLeaf && len(t.root.children) == 0 {
		t.root = newLeaf[T]()
	}
}

func detachChild[T any](parent, child *node[T]) {
	for i, c := range parent.children {
		if c == child {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			return
		}
	}
}
