package rtree

import (
	"sort"

	"github.com/ctessum/geom"

	"github.com/peterstace/spatialindex"
)

// BulkLoad bulk loads multiple entries into a new R-Tree. The bulk load
// operation is optimised for creating R-Trees with minimal node overlap. This
// allows for fast searching. The resulting tree accepts further inserts and
// removals like any other.
func BulkLoad[T comparable](minEntries, maxEntries int, entries []Entry[T]) (*RTree[T], error) {
	tr, err := New[T](minEntries, maxEntries)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return tr, nil
	}

	items := make([]Entry[T], len(entries))
	copy(items, entries)

	// Every leaf ends up at the same depth: the number of halvings needed
	// until each group fits in a single leaf.
	depth := 0
	for groups := 1; groups*maxEntries < len(items); groups *= 2 {
		depth++
	}
	tr.root = bulkInsert(items, depth)
	tr.count = len(items)
	return tr, nil
}

func bulkInsert[T any](items []Entry[T], depth int) *node[T] {
	if depth == 0 {
		// Leaves get their own backing array so that later inserts can't
		// clobber a sibling's entries.
		n := &node[T]{isLeaf: true, entries: append([]Entry[T](nil), items...)}
		n.recalculate()
		return n
	}

	bbox := spatialindex.EmptyEnvelope()
	for _, item := range items {
		bbox = spatialindex.Union(bbox, item.BBox)
	}

	var centre func(geom.Bounds) float64
	if bbox.Max.X-bbox.Min.X > bbox.Max.Y-bbox.Min.Y {
		centre = func(bb geom.Bounds) float64 { return bb.Min.X + bb.Max.X }
	} else {
		centre = func(bb geom.Bounds) float64 { return bb.Min.Y + bb.Max.Y }
	}
	sort.Slice(items, func(i, j int) bool {
		return centre(items[i].BBox) < centre(items[j].BBox)
	})

	split := len(items) / 2
	parent := &node[T]{
		isLeaf: false,
		children: []*node[T]{
			bulkInsert(items[:split], depth-1),
			bulkInsert(items[split:], depth-1),
		},
	}
	parent.recalculate()
	return parent
}
