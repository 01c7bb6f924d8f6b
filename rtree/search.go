package rtree

import (
	"github.com/ctessum/geom"

	"github.com/peterstace/spatialindex"
)

// Visit calls fn for each value in the tree whose envelope intersects bb.
// If fn returns false, the search stops and Visit returns false.
func (t *RTree[T]) Visit(bb geom.Bounds, fn spatialindex.Visitor[T]) bool {
	return t.VisitEntries(bb, func(e Entry[T]) bool {
		return fn(e.Value)
	})
}

// VisitFiltered is like Visit, but only calls fn for values accepted by pred.
func (t *RTree[T]) VisitFiltered(bb geom.Bounds, pred spatialindex.Predicate[T], fn spatialindex.Visitor[T]) bool {
	return t.Visit(bb, spatialindex.Filter(pred, fn))
}

// VisitAll calls fn for every value in the tree.
func (t *RTree[T]) VisitAll(fn spatialindex.Visitor[T]) bool {
	return visitNode(t.root, nil, func(e Entry[T]) bool {
		return fn(e.Value)
	})
}

// VisitEntries calls fn for each entry in the tree whose envelope intersects
// bb. If fn returns false, the search stops and VisitEntries returns false.
func (t *RTree[T]) VisitEntries(bb geom.Bounds, fn func(Entry[T]) bool) bool {
	return visitNode(t.root, &bb, fn)
}

// visitNode visits the entries below n that intersect bb, or all entries if
// bb is nil. It returns false as soon as fn does, without visiting anything
// further.
func visitNode[T any](n *node[T], bb *geom.Bounds, fn func(Entry[T]) bool) bool {
	if n.isLeaf {
		for i := range n.entries {
			if bb != nil && !spatialindex.Intersects(n.entries[i].BBox, *bb) {
				continue
			}
			if !fn(n.entries[i]) {
				return false
			}
		}
		return true
	}
	for _, child := range n.children {
		if bb != nil && !spatialindex.Intersects(child.bounds, *bb) {
			continue
		}
		if !visitNode(child, bb, fn) {
			return false
		}
	}
	return true
}

// Find gives the values whose envelopes intersect bb.
func (t *RTree[T]) Find(bb geom.Bounds) []T {
	return spatialindex.Collect(func(fn spatialindex.Visitor[T]) bool {
		return t.Visit(bb, fn)
	})
}

// FindFiltered gives the values whose envelopes intersect bb and that are
// accepted by pred.
func (t *RTree[T]) FindFiltered(bb geom.Bounds, pred spatialindex.Predicate[T]) []T {
	return spatialindex.Collect(func(fn spatialindex.Visitor[T]) bool {
		return t.VisitFiltered(bb, pred, fn)
	})
}

// FindAll gives every value in the tree.
func (t *RTree[T]) FindAll() []T {
	return spatialindex.Collect(t.VisitAll)
}
