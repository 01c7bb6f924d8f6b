package quadtree

import (
	"github.com/ctessum/geom"

	"github.com/peterstace/spatialindex"
)

// Visit calls fn for every value in the tree. If fn returns false, the
// iteration stops and Visit returns false.
func (tr *QuadTree[T]) Visit(fn spatialindex.Visitor[T]) bool {
	return visit(tr.root, func(_ geom.Point, v T) bool {
		return fn(v)
	})
}

// VisitWithin calls fn for every value whose point lies inside or on the
// boundary of b. If fn returns false, the search stops and VisitWithin
// returns false.
func (tr *QuadTree[T]) VisitWithin(b geom.Bounds, fn spatialindex.Visitor[T]) bool {
	return tr.VisitPoints(b, func(_ geom.Point, v T) bool {
		return fn(v)
	})
}

// VisitPoints is like VisitWithin, but also passes each value's point to fn.
func (tr *QuadTree[T]) VisitPoints(b geom.Bounds, fn func(p geom.Point, value T) bool) bool {
	return search(tr.root, b, fn)
}

func visit[T any](n *nodeT[T], fn func(geom.Point, T) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n.point, n.value) {
		return false
	}
	for _, c := range n.children {
		if !visit(c, fn) {
			return false
		}
	}
	return true
}

// search visits the points below n inside b. A quadrant is only entered if
// the part of b on that side of the node's point is non-empty.
func search[T any](n *nodeT[T], b geom.Bounds, fn func(geom.Point, T) bool) bool {
	if n == nil {
		return true
	}
	if spatialindex.ContainsPoint(b, n.point) {
		if !fn(n.point, n.value) {
			return false
		}
	}
	x, y := n.point.X, n.point.Y
	if b.Max.X >= x && b.Max.Y >= y && !search(n.children[ne], b, fn) {
		return false
	}
	if b.Min.X < x && b.Max.Y >= y && !search(n.children[nw], b, fn) {
		return false
	}
	if b.Min.X < x && b.Min.Y < y && !search(n.children[sw], b, fn) {
		return false
	}
	if b.Max.X >= x && b.Min.Y < y && !search(n.children[se], b, fn) {
		return false
	}
	return true
}

// Find gives the values whose points lie inside or on the boundary of b.
func (tr *QuadTree[T]) Find(b geom.Bounds) []T {
	return spatialindex.Collect(func(fn spatialindex.Visitor[T]) bool {
		return tr.VisitWithin(b, fn)
	})
}

// FindAll gives every value in the tree.
func (tr *QuadTree[T]) FindAll() []T {
	return spatialindex.Collect(tr.Visit)
}

// FindWithinDistance gives the values whose points are strictly closer than
// radius to p.
func (tr *QuadTree[T]) FindWithinDistance(p geom.Point, radius float64) []T {
	if !(radius > 0) {
		return nil
	}
	var vals []T
	b := spatialindex.Expand(spatialindex.PointEnvelope(p), radius)
	tr.VisitPoints(b, func(q geom.Point, v T) bool {
		if spatialindex.Distance(p, q) < radius {
			vals = append(vals, v)
		}
		return true
	})
	return vals
}

// FindWithinSegmentDistance gives the values whose points are strictly closer
// than maxDistance to the segment from a to b. Candidates are gathered from
// the segment's envelope grown by maxDistance, and then filtered by their
// exact distance to the segment. A zero length segment is treated as the
// point a.
func (tr *QuadTree[T]) FindWithinSegmentDistance(a, b geom.Point, maxDistance float64) []T {
	if !(maxDistance > 0) {
		return nil
	}
	var vals []T
	env := spatialindex.Union(spatialindex.PointEnvelope(a), spatialindex.PointEnvelope(b))
	env = spatialindex.Expand(env, maxDistance)
	tr.VisitPoints(env, func(q geom.Point, v T) bool {
		if spatialindex.SegmentDistance(q, a, b) < maxDistance {
			vals = append(vals, v)
		}
		return true
	})
	return vals
}
