// Package spatialindex holds the contracts shared by the in-memory 2D spatial
// indexes in its sub packages: an R-Tree keyed by envelopes (package rtree)
// and a point quad tree keyed by coordinates (package quadtree).
//
// Envelopes are github.com/ctessum/geom Bounds values and points are geom
// Points. None of the indexes are safe for concurrent use. A caller that
// shares an index between goroutines must guard it with its own lock (a
// single sync.RWMutex around the whole index is sufficient, with queries
// under the read lock). Visitors run on the goroutine that started the query
// and must not modify the index they are visiting.
package spatialindex

import "github.com/ctessum/geom"

// Visitor is called once for each value matched by a query. Returning false
// stops the query: no further values are visited and the query call returns
// immediately.
type Visitor[T any] func(value T) bool

// Predicate filters the values passed to a Visitor.
type Predicate[T any] func(value T) bool

// EnvelopeIndex stores values keyed by envelopes.
type EnvelopeIndex[T any] interface {
	Put(b geom.Bounds, value T)
	// Remove removes a single value stored with an equal envelope. The
	// return value reports whether such a value was found.
	Remove(b geom.Bounds, value T) bool

	Find(b geom.Bounds) []T
	FindFiltered(b geom.Bounds, pred Predicate[T]) []T
	FindAll() []T

	// The Visit methods return false if the visitor stopped the query early.
	Visit(b geom.Bounds, fn Visitor[T]) bool
	VisitAll(fn Visitor[T]) bool
	VisitFiltered(b geom.Bounds, pred Predicate[T], fn Visitor[T]) bool
}

// PointIndex stores values keyed by points.
type PointIndex[T any] interface {
	Put(p geom.Point, value T)
	// Remove removes a single value stored at exactly (x, y). The return
	// value reports whether such a value was found.
	Remove(x, y float64, value T) bool

	// Find gives the values whose points lie inside or on the boundary of b.
	Find(b geom.Bounds) []T
	// FindWithinDistance gives the values whose points are strictly closer
	// than radius to p.
	FindWithinDistance(p geom.Point, radius float64) []T
	// FindWithinSegmentDistance gives the values whose points are strictly
	// closer than maxDistance to the segment from a to b.
	FindWithinSegmentDistance(a, b geom.Point, maxDistance float64) []T

	Visit(fn Visitor[T]) bool
	VisitWithin(b geom.Bounds, fn Visitor[T]) bool
}
