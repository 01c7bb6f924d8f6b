package quadtree

import (
	"fmt"
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"

	"github.com/peterstace/spatialindex"
)

var _ spatialindex.PointIndex[int] = (*QuadTree[int])(nil)

func randXY(rnd *rand.Rand) geom.Point {
	return geom.Point{X: rnd.Float64() * 100, Y: rnd.Float64() * 100}
}

// gridXY gives points on a coarse grid so that repeated coordinates and
// points on quadrant boundaries are common.
func gridXY(rnd *rand.Rand) geom.Point {
	return geom.Point{X: float64(rnd.Intn(10)) * 10, Y: float64(rnd.Intn(10)) * 10}
}

func populate(rnd *rand.Rand, n int, gen func(*rand.Rand) geom.Point) (*QuadTree[int], []geom.Point) {
	tr := New[int]()
	pts := make([]geom.Point, n)
	for i := range pts {
		pts[i] = gen(rnd)
		tr.Put(pts[i], i)
	}
	return tr, pts
}

func TestFindWithinDistance(t *testing.T) {
	for name, gen := range map[string]func(*rand.Rand) geom.Point{"random": randXY, "grid": gridXY} {
		t.Run(name, func(t *testing.T) {
			rnd := rand.New(rand.NewSource(0))
			tr, pts := populate(rnd, 500, gen)
			checkInvariants(t, tr)
			for i := 0; i < 50; i++ {
				p := randXY(rnd)
				if i%5 == 0 {
					p = pts[rnd.Intn(len(pts))]
				}
				radius := rnd.Float64() * 30
				if i%7 == 0 {
					radius = 10 // Grid points exactly on the circle must be excluded.
				}
				got := tr.FindWithinDistance(p, radius)

				var want []int
				for j, q := range pts {
					if spatialindex.Distance(p, q) < radius {
						want = append(want, j)
					}
				}
				sort.Ints(got)
				if !reflect.DeepEqual(got, want) {
					t.Fatalf("p=%v r=%v got=%v want=%v", p, radius, got, want)
				}
			}
		})
	}
}

func TestFind(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	tr, pts := populate(rnd, 400, gridXY)
	for i := 0; i < 100; i++ {
		b := spatialindex.NewEnvelope(
			float64(rnd.Intn(110)-5), float64(rnd.Intn(110)-5),
			float64(rnd.Intn(110)-5), float64(rnd.Intn(110)-5),
		)
		got := tr.Find(b)
		var want []int
		for j, q := range pts {
			if spatialindex.ContainsPoint(b, q) {
				want = append(want, j)
			}
		}
		sort.Ints(got)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("b=%v got=%v want=%v", b, got, want)
		}
	}
}

func TestFindWithinSegmentDistance(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	tr, pts := populate(rnd, 500, randXY)
	for i := 0; i < 50; i++ {
		a, b := randXY(rnd), randXY(rnd)
		if i%10 == 0 {
			b = a
		}
		d := rnd.Float64() * 10
		got := tr.FindWithinSegmentDistance(a, b, d)

		var want []int
		for j, q := range pts {
			if spatialindex.SegmentDistance(q, a, b) < d {
				want = append(want, j)
			}
		}
		sort.Ints(got)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("a=%v b=%v d=%v got=%v want=%v", a, b, d, got, want)
		}
	}
}

func TestZeroLengthSegment(t *testing.T) {
	tr := New[string]()
	tr.Put(geom.Point{X: 0, Y: 0}, "origin")
	tr.Put(geom.Point{X: 3, Y: 4}, "far")
	p := geom.Point{X: 1, Y: 1}
	got := tr.FindWithinSegmentDistance(p, p, 2)
	if !reflect.DeepEqual(got, tr.FindWithinDistance(p, 2)) || !reflect.DeepEqual(got, []string{"origin"}) {
		t.Errorf("got=%v", got)
	}
}

func TestSegmentDistance(t *testing.T) {
	for _, tt := range []struct {
		p, a, b geom.Point
		want    float64
	}{
		{geom.Point{X: 0, Y: 1}, geom.Point{X: -1, Y: 0}, geom.Point{X: 1, Y: 0}, 1},
		{geom.Point{X: 3, Y: 4}, geom.Point{X: -1, Y: 0}, geom.Point{X: 0, Y: 0}, 5},
		{geom.Point{X: 3, Y: 4}, geom.Point{X: 0, Y: 0}, geom.Point{X: 0, Y: 0}, 5},
		{geom.Point{X: 1, Y: 1}, geom.Point{X: 0, Y: 0}, geom.Point{X: 2, Y: 2}, 0},
	} {
		if got := spatialindex.SegmentDistance(tt.p, tt.a, tt.b); !floats.EqualWithinAbs(got, tt.want, 1e-12) {
			t.Errorf("p=%v a=%v b=%v got=%v want=%v", tt.p, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRemove(t *testing.T) {
	for name, gen := range map[string]func(*rand.Rand) geom.Point{"random": randXY, "grid": gridXY} {
		t.Run(name, func(t *testing.T) {
			rnd := rand.New(rand.NewSource(3))
			tr, pts := populate(rnd, 300, gen)
			removed := make(map[int]bool)
			for n, i := range rnd.Perm(len(pts)) {
				if !tr.Remove(pts[i].X, pts[i].Y, i) {
					t.Fatalf("could not remove %d at %v", i, pts[i])
				}
				if tr.Remove(pts[i].X, pts[i].Y, i) {
					t.Fatalf("removed %d twice", i)
				}
				removed[i] = true
				if tr.Len() != len(pts)-n-1 {
					t.Fatalf("len=%d want=%d", tr.Len(), len(pts)-n-1)
				}
				if n%10 == 0 {
					checkInvariants(t, tr)
					got := tr.FindAll()
					sort.Ints(got)
					var want []int
					for j := range pts {
						if !removed[j] {
							want = append(want, j)
						}
					}
					if !reflect.DeepEqual(got, want) {
						t.Fatalf("got=%v want=%v", got, want)
					}
				}
			}
		})
	}
}

func TestRemoveNotFound(t *testing.T) {
	tr := New[string]()
	if tr.Remove(1, 1, "a") {
		t.Error("removed from empty tree")
	}
	tr.Put(geom.Point{X: 1, Y: 1}, "a")
	tr.Put(geom.Point{X: 1, Y: 1}, "b")
	tr.Put(geom.Point{X: 2, Y: 2}, "c")
	if tr.Remove(1, 1, "c") {
		t.Error("removed value at the wrong point")
	}
	if tr.Remove(1, 2, "a") {
		t.Error("removed value at the wrong point")
	}
	if !tr.Remove(1, 1, "a") {
		t.Error("could not remove root")
	}
	got := tr.FindAll()
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("got=%v", got)
	}
	if got := tr.Find(spatialindex.PointEnvelope(geom.Point{X: 1, Y: 1})); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("got=%v", got)
	}
}

func TestEarlyExit(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	tr, _ := populate(rnd, 100, gridXY)
	everything := spatialindex.NewEnvelope(-1, -1, 101, 101)
	for name, visit := range map[string]func(spatialindex.Visitor[int]) bool{
		"Visit": tr.Visit,
		"VisitWithin": func(fn spatialindex.Visitor[int]) bool {
			return tr.VisitWithin(everything, fn)
		},
	} {
		t.Run(name, func(t *testing.T) {
			var calls int
			if visit(func(int) bool {
				calls++
				return false
			}) {
				t.Error("expected early termination to be reported")
			}
			if calls != 1 {
				t.Errorf("calls=%d", calls)
			}
		})
	}
}

func TestEmpty(t *testing.T) {
	var tr QuadTree[int]
	if got := tr.Find(spatialindex.NewEnvelope(-1e9, -1e9, 1e9, 1e9)); len(got) != 0 {
		t.Errorf("got=%v", got)
	}
	if got := tr.FindWithinDistance(geom.Point{}, 1e9); len(got) != 0 {
		t.Errorf("got=%v", got)
	}
	if !tr.Visit(func(int) bool { return false }) {
		t.Error("expected empty visit to complete")
	}
}

func TestQuadrant(t *testing.T) {
	n := &nodeT[int]{point: geom.Point{X: 5, Y: 5}}
	for _, tt := range []struct {
		p    geom.Point
		want int
	}{
		{geom.Point{X: 5, Y: 5}, ne},
		{geom.Point{X: 6, Y: 6}, ne},
		{geom.Point{X: 4, Y: 6}, nw},
		{geom.Point{X: 4, Y: 5}, nw},
		{geom.Point{X: 4, Y: 4}, sw},
		{geom.Point{X: 5, Y: 4}, se},
		{geom.Point{X: 6, Y: 4}, se},
	} {
		t.Run(fmt.Sprint(tt.p), func(t *testing.T) {
			if got := n.quadrant(tt.p); got != tt.want {
				t.Errorf("got=%d want=%d", got, tt.want)
			}
		})
	}
}

// checkInvariants checks that every point is in the quadrant it belongs to
// relative to each of its ancestors, and that the count matches.
func checkInvariants[T comparable](t *testing.T, tr *QuadTree[T]) {
	t.Helper()
	var count int
	var ancestors []*nodeT[T]
	var recurse func(n *nodeT[T])
	recurse = func(n *nodeT[T]) {
		count++
		for i, a := range ancestors {
			var want *nodeT[T]
			if i+1 < len(ancestors) {
				want = ancestors[i+1]
			} else {
				want = n
			}
			if a.children[a.quadrant(n.point)] != want {
				t.Fatalf("point %v is in the wrong quadrant of %v", n.point, a.point)
			}
		}
		ancestors = append(ancestors, n)
		for _, c := range n.children {
			if c != nil {
				recurse(c)
			}
		}
		ancestors = ancestors[:len(ancestors)-1]
	}
	if tr.root != nil {
		recurse(tr.root)
	}
	if count != tr.Len() {
		t.Fatalf("counted %d nodes, len is %d", count, tr.Len())
	}
}
