package rtree

import (
	"math"

	"github.com/ctessum/geom"

	"github.com/peterstace/spatialindex"
)

// exhaustiveSplitLimit is the largest member count for which every possible
// split is tried. Above it, the quadratic split is used.
const exhaustiveSplitLimit = 10

// splitNode splits the members of an overfull node n into two new nodes of
// the same kind. n itself is left untouched so that it can be located in its
// parent.
func (t *RTree[T]) splitNode(n *node[T]) (*node[T], *node[T]) {
	boxes := make([]geom.Bounds, n.size())
	if n.isLeaf {
		for i := range n.entries {
			boxes[i] = n.entries[i].BBox
		}
	} else {
		for i, c := range n.children {
			boxes[i] = c.bounds
		}
	}

	var inB []bool
	if len(boxes) <= exhaustiveSplitLimit {
		inB = exhaustiveSplit(boxes)
	} else {
		inB = quadraticSplit(boxes)
	}

	a := &node[T]{isLeaf: n.isLeaf}
	b := &node[T]{isLeaf: n.isLeaf}
	for i, toB := range inB {
		dst := a
		if toB {
			dst = b
		}
		if n.isLeaf {
			dst.entries = append(dst.entries, n.entries[i])
		} else {
			dst.children = append(dst.children, n.children[i])
		}
	}
	a.recalculate()
	b.recalculate()
	return a, b
}

// exhaustiveSplit tries every way of dividing boxes into two non-empty groups
// and picks the one with the smallest combined area. The result marks the
// boxes that belong to the second group.
func exhaustiveSplit(boxes []geom.Bounds) []bool {
	var (
		// All zeros would not be valid split, so start at 1.
		minSplit = uint64(1)
		// The MSB should always be 0, to remove duplicates from inverting the
		// bit pattern. So we raise 2 to the power of one less than the number
		// of boxes rather than the number of boxes.
		//
		// E.g. for 4 boxes, we want the following bit patterns:
		// 0001, 0010, 0011, 0100, 0101, 0110, 0111.
		maxSplit = uint64((1 << (len(boxes) - 1)) - 1)
	)
	bestArea := math.Inf(+1)
	var bestSplit uint64
	for split := minSplit; split <= maxSplit; split++ {
		bboxA := spatialindex.EmptyEnvelope()
		bboxB := spatialindex.EmptyEnvelope()
		for i, box := range boxes {
			if split&(1<<uint(i)) == 0 {
				bboxA = spatialindex.Union(bboxA, box)
			} else {
				bboxB = spatialindex.Union(bboxB, box)
			}
		}
		combinedArea := spatialindex.Area(bboxA) + spatialindex.Area(bboxB)
		if combinedArea < bestArea {
			bestArea = combinedArea
			bestSplit = split
		}
	}

	inB := make([]bool, len(boxes))
	for i := range boxes {
		inB[i] = bestSplit&(1<<uint(i)) != 0
	}
	return inB
}

// quadraticSplit divides boxes into two non-empty groups using Guttman's
// quadratic cost algorithm. The result marks the boxes that belong to the
// second group.
func quadraticSplit(boxes []geom.Bounds) []bool {
	inB := make([]bool, len(boxes))
	assigned := make([]bool, len(boxes))

	// QS1 [Pick first entry for each group]
	seedA, seedB := pickSeeds(boxes)
	assigned[seedA], assigned[seedB] = true, true
	inB[seedB] = true
	bboxA, bboxB := boxes[seedA], boxes[seedB]
	countA, countB := 1, 1

	// QS2 [Check if done]
	for remaining := len(boxes) - 2; remaining > 0; remaining-- {
		// QS3 [Select entry to assign]
		next := -1
		var nextDiff, deltaA, deltaB float64
		for i, box := range boxes {
			if assigned[i] {
				continue
			}
			da := spatialindex.Enlargement(bboxA, box)
			db := spatialindex.Enlargement(bboxB, box)
			if diff := math.Abs(da - db); next == -1 || diff > nextDiff {
				next, nextDiff, deltaA, deltaB = i, diff, da, db
			}
		}
		assigned[next] = true

		// Add to the group needing the least enlargement, then the group
		// with the smaller area, then the group with fewer entries.
		toB := false
		switch {
		case deltaA != deltaB:
			toB = deltaB < deltaA
		case spatialindex.Area(bboxA) != spatialindex.Area(bboxB):
			toB = spatialindex.Area(bboxB) < spatialindex.Area(bboxA)
		default:
			toB = countB < countA
		}
		if toB {
			inB[next] = true
			bboxB = spatialindex.Union(bboxB, boxes[next])
			countB++
		} else {
			bboxA = spatialindex.Union(bboxA, boxes[next])
			countA++
		}
	}
	return inB
}

// pickSeeds finds the pair of boxes that would waste the most area if they
// were put in the same group.
func pickSeeds(boxes []geom.Bounds) (int, int) {
	seedA, seedB := 0, 1
	worst := math.Inf(-1)
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			d := spatialindex.Area(spatialindex.Union(boxes[i], boxes[j])) -
				spatialindex.Area(boxes[i]) - spatialindex.Area(boxes[j])
			if d > worst {
				worst = d
				seedA, seedB = i, j
			}
		}
	}
	return seedA, seedB
}
