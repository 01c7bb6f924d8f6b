package spatialindex

import (
	"math"

	"github.com/ctessum/geom"
)

// NewEnvelope creates an envelope from its corner coordinates. The
// coordinates are normalised so that the minimums are never greater than the
// maximums.
func NewEnvelope(minX, minY, maxX, maxY float64) geom.Bounds {
	return geom.Bounds{
		Min: geom.Point{X: math.Min(minX, maxX), Y: math.Min(minY, maxY)},
		Max: geom.Point{X: math.Max(minX, maxX), Y: math.Max(minY, maxY)},
	}
}

// PointEnvelope gives the zero area envelope of a point.
func PointEnvelope(p geom.Point) geom.Bounds {
	return geom.Bounds{Min: p, Max: p}
}

// EmptyEnvelope gives an envelope that contains nothing. It is the identity
// for Union.
func EmptyEnvelope() geom.Bounds {
	return *geom.NewBounds()
}

// Area gives the area of an envelope. Empty envelopes have zero area.
func Area(b geom.Bounds) float64 {
	if b.Empty() {
		return 0
	}
	return (b.Max.X - b.Min.X) * (b.Max.Y - b.Min.Y)
}

// Union gives the smallest envelope containing both b1 and b2.
func Union(b1, b2 geom.Bounds) geom.Bounds {
	b1.Extend(&b2)
	return b1
}

// Enlargement returns how much additional area the existing envelope would
// have to enlarge by to accommodate the additional envelope.
func Enlargement(existing, additional geom.Bounds) float64 {
	return Area(Union(existing, additional)) - Area(existing)
}

// Intersects reports whether b1 and b2 share at least one point. Touching
// edges count as intersecting.
func Intersects(b1, b2 geom.Bounds) bool {
	return b1.Overlaps(&b2)
}

// Contains reports whether inner lies entirely within (or on the boundary
// of) outer.
func Contains(outer, inner geom.Bounds) bool {
	return outer.Min.X <= inner.Min.X && inner.Max.X <= outer.Max.X &&
		outer.Min.Y <= inner.Min.Y && inner.Max.Y <= outer.Max.Y
}

// ContainsPoint reports whether p lies inside or on the boundary of b.
func ContainsPoint(b geom.Bounds, p geom.Point) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X && b.Min.Y <= p.Y && p.Y <= b.Max.Y
}

// Expand grows b by d in every direction.
func Expand(b geom.Bounds, d float64) geom.Bounds {
	b.Min.X -= d
	b.Min.Y -= d
	b.Max.X += d
	b.Max.Y += d
	return b
}

// Distance gives the Euclidean distance between two points.
func Distance(p, q geom.Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// SegmentDistance gives the Euclidean distance between p and the closest
// point on the segment from a to b. A zero length segment is treated as the
// single point a.
func SegmentDistance(p, a, b geom.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return Distance(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Distance(p, geom.Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

// BoxDistance gives the distance from p to the nearest point of b. It is
// zero when p is inside b.
func BoxDistance(p geom.Point, b geom.Bounds) float64 {
	return math.Hypot(axisDist(p.X, b.Min.X, b.Max.X), axisDist(p.Y, b.Min.Y, b.Max.Y))
}

func axisDist(k, min, max float64) float64 {
	if k < min {
		return min - k
	}
	if k <= max {
		return 0
	}
	return k - max
}
