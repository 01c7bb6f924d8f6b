// Package rtree implements an in-memory R-Tree holding values keyed by
// axis-aligned envelopes.
//
// An RTree is not safe for concurrent use; see package spatialindex for the
// locking expected of callers.
package rtree

import (
	"errors"

	"github.com/ctessum/geom"

	"github.com/peterstace/spatialindex"
)

// Default node size parameters.
const (
	DefaultMinEntries = 12
	DefaultMaxEntries = 32
)

// Entry is a value stored in a leaf node along with its envelope.
type Entry[T any] struct {
	BBox  geom.Bounds
	Value T
}

// node is a node in an R-Tree. Nodes can either be leaf nodes holding entries
// for terminal items, or branch nodes holding more nodes. The bounds of a
// node are always the union of the bounds of its entries or children.
type node[T any] struct {
	bounds   geom.Bounds
	isLeaf   bool
	entries  []Entry[T]
	children []*node[T]
}

func newLeaf[T any]() *node[T] {
	return &node[T]{bounds: spatialindex.EmptyEnvelope(), isLeaf: true}
}

// size is the number of entries or children held directly by the node.
func (n *node[T]) size() int {
	if n.isLeaf {
		return len(n.entries)
	}
	return len(n.children)
}

// recalculate resets the bounds of the node from its members.
func (n *node[T]) recalculate() {
	bb := spatialindex.EmptyEnvelope()
	if n.isLeaf {
		for i := range n.entries {
			bb = spatialindex.Union(bb, n.entries[i].BBox)
		}
	} else {
		for _, c := range n.children {
			bb = spatialindex.Union(bb, c.bounds)
		}
	}
	n.bounds = bb
}

// RTree is an in-memory R-Tree data structure.
type RTree[T comparable] struct {
	root       *node[T]
	minEntries int
	maxEntries int
	count      int
}

// New creates an empty RTree with the given node size parameters.
// maxEntries is the capacity of each node. minEntries is validated but is
// otherwise reserved: the tree doesn't enforce a minimum occupancy, and
// nodes may become arbitrarily under full after removals.
func New[T comparable](minEntries, maxEntries int) (*RTree[T], error) {
	if maxEntries < 2 {
		return nil, errors.New("max entries must be at least 2")
	}
	if minEntries < 0 {
		return nil, errors.New("min entries must not be negative")
	}
	if minEntries > maxEntries/2 {
		return nil, errors.New("min entries must be less than or equal to half of the max entries")
	}
	return &RTree[T]{
		root:       newLeaf[T](),
		minEntries: minEntries,
		maxEntries: maxEntries,
	}, nil
}

// NewDefault creates an empty RTree using DefaultMinEntries and
// DefaultMaxEntries.
func NewDefault[T comparable]() *RTree[T] {
	t, err := New[T](DefaultMinEntries, DefaultMaxEntries)
	if err != nil {
		panic(err)
	}
	return t
}

// Len gives the number of entries in the tree.
func (t *RTree[T]) Len() int {
	return t.count
}

// Extent gives the envelope that most closely bounds the tree. If the tree is
// empty, then false is returned.
func (t *RTree[T]) Extent() (geom.Bounds, bool) {
	if t.count == 0 {
		return geom.Bounds{}, false
	}
	return t.root.bounds, true
}

// Height gives the number of levels of nodes in the tree. An empty tree has
// a height of 1 (a single empty leaf).
func (t *RTree[T]) Height() int {
	h := 1
	for n := t.root; !n.isLeaf; n = n.children[0] {
		h++
	}
	return h
}

// Clear removes all entries from the tree.
func (t *RTree[T]) Clear() {
	t.root = newLeaf[T]()
	t.count = 0
}
