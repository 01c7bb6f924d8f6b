package rtree

import (
	"github.com/ctessum/geom"
	"github.com/tidwall/tinyqueue"

	"github.com/peterstace/spatialindex"
)

type queueItem[T any] struct {
	node  *node[T]
	entry Entry[T]
	dist  float64
}

func (item *queueItem[T]) Less(b tinyqueue.Item) bool {
	return item.dist < b.(*queueItem[T]).dist
}

// Nearest iterates over the values in the tree in order of the distance from
// p to their envelopes (shortest distance first using the Euclidean metric).
// The distance is zero for envelopes containing p. If fn returns false, the
// iteration stops and Nearest returns false.
func (t *RTree[T]) Nearest(p geom.Point, fn func(value T, dist float64) bool) bool {
	if t.count == 0 {
		return true
	}
	queue := tinyqueue.New(nil)
	queue.Push(&queueItem[T]{node: t.root, dist: spatialindex.BoxDistance(p, t.root.bounds)})
	for queue.Len() > 0 {
		item := queue.Pop().(*queueItem[T])
		if item.node == nil {
			if !fn(item.entry.Value, item.dist) {
				return false
			}
			continue
		}
		n := item.node
		if n.isLeaf {
			for _, e := range n.entries {
				queue.Push(&queueItem[T]{entry: e, dist: spatialindex.BoxDistance(p, e.BBox)})
			}
			continue
		}
		for _, child := range n.children {
			queue.Push(&queueItem[T]{node: child, dist: spatialindex.BoxDistance(p, child.bounds)})
		}
	}
	return true
}
