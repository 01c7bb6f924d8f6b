// Package idindex assigns dense integer ids to values stored in an envelope
// index, so that query results can be passed around as compact id lists
// instead of values.
package idindex

import (
	"sort"

	"github.com/ctessum/geom"
	"github.com/google/btree"

	"github.com/peterstace/spatialindex"
	"github.com/peterstace/spatialindex/rtree"
)

const btreeDegree = 16

type item[T any] struct {
	id    int
	value T
	bbox  geom.Bounds
}

func lessID[T any](a, b item[T]) bool {
	return a.id < b.id
}

// Index is an envelope index of values addressed by id. Ids are assigned
// from zero in the order values are added and are never reused. All
// geometric work is delegated to the underlying EnvelopeIndex, which holds
// ids rather than values.
type Index[T comparable] struct {
	envelope func(T) geom.Bounds
	ix       spatialindex.EnvelopeIndex[int]
	objects  *btree.BTreeG[item[T]]
	ids      map[T]int
	nextID   int
}

// New creates an empty Index. envelope gives the envelope of a value; it is
// called once when the value is added. ix must be empty and must not be
// modified other than through the returned Index.
func New[T comparable](envelope func(T) geom.Bounds, ix spatialindex.EnvelopeIndex[int]) *Index[T] {
	return &Index[T]{
		envelope: envelope,
		ix:       ix,
		objects:  btree.NewG[item[T]](btreeDegree, lessID[T]),
		ids:      make(map[T]int),
	}
}

// NewRTree creates an empty Index backed by an R-Tree with the default node
// sizes.
func NewRTree[T comparable](envelope func(T) geom.Bounds) *Index[T] {
	return New(envelope, rtree.NewDefault[int]())
}

// Add adds value to the index and returns its id. Adding a value that is
// already present returns the existing id.
func (x *Index[T]) Add(value T) int {
	if id, ok := x.ids[value]; ok {
		return id
	}
	it := item[T]{id: x.nextID, value: value, bbox: x.envelope(value)}
	x.nextID++
	x.objects.ReplaceOrInsert(it)
	x.ids[value] = it.id
	x.ix.Put(it.bbox, it.id)
	return it.id
}

// Len gives the number of values in the index.
func (x *Index[T]) Len() int {
	return x.objects.Len()
}

// Object gives the value with the given id.
func (x *Index[T]) Object(id int) (T, bool) {
	it, ok := x.objects.Get(item[T]{id: id})
	return it.value, ok
}

// Objects gives the values with the given ids, in the same order. Ids that
// aren't in the index are skipped.
func (x *Index[T]) Objects(ids []int) []T {
	vals := make([]T, 0, len(ids))
	for _, id := range ids {
		if v, ok := x.Object(id); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// ID gives the id of value.
func (x *Index[T]) ID(value T) (int, bool) {
	id, ok := x.ids[value]
	return id, ok
}

// Envelope gives the envelope value was indexed with.
func (x *Index[T]) Envelope(value T) (geom.Bounds, bool) {
	id, ok := x.ids[value]
	if !ok {
		return geom.Bounds{}, false
	}
	it, _ := x.objects.Get(item[T]{id: id})
	return it.bbox, true
}

// IDs gives the ids of the values whose envelopes intersect b, in ascending
// order.
func (x *Index[T]) IDs(b geom.Bounds) []int {
	ids := x.ix.Find(b)
	sort.Ints(ids)
	return ids
}

// Query gives the values whose envelopes intersect b, in ascending id order.
func (x *Index[T]) Query(b geom.Bounds) []T {
	return x.Objects(x.IDs(b))
}

// Visit calls fn for each value whose envelope intersects b. If fn returns
// false, the search stops and Visit returns false.
func (x *Index[T]) Visit(b geom.Bounds, fn spatialindex.Visitor[T]) bool {
	return x.ix.Visit(b, func(id int) bool {
		v, ok := x.Object(id)
		if !ok {
			return true
		}
		return fn(v)
	})
}

// All calls fn for every value in ascending id order.
func (x *Index[T]) All(fn func(id int, value T) bool) bool {
	completed := true
	x.objects.Ascend(func(it item[T]) bool {
		completed = fn(it.id, it.value)
		return completed
	})
	return completed
}

// Remove removes value from the index. The returned bool indicates whether
// the value was present.
func (x *Index[T]) Remove(value T) bool {
	id, ok := x.ids[value]
	if !ok {
		return false
	}
	it, _ := x.objects.Delete(item[T]{id: id})
	delete(x.ids, value)
	x.ix.Remove(it.bbox, id)
	return true
}
