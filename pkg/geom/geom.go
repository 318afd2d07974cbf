// pkg/geom/geom.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geom

import (
	gomath "math"
	"sort"
)

///////////////////////////////////////////////////////////////////////////
// Extent2D

// Extent2D represents a 2D bounding box with the two vertices at its
// opposite minimum and maximum corners.
type Extent2D struct {
	P0, P1 Point
}

// EmptyExtent2D returns an Extent2D representing an empty bounding box.
func EmptyExtent2D() Extent2D {
	return Extent2D{P0: Point{Infinity, Infinity}, P1: Point{-Infinity, -Infinity}}
}

// Extent2DFromPoints returns an Extent2D that bounds all of the provided points.
func Extent2DFromPoints(pts []Point) Extent2D {
	e := EmptyExtent2D()
	for _, p := range pts {
		for d := 0; d < 2; d++ {
			if p[d] < e.P0[d] {
				e.P0[d] = p[d]
			}
			if p[d] > e.P1[d] {
				e.P1[d] = p[d]
			}
		}
	}
	return e
}

func (e Extent2D) Inside(p Point) bool {
	return p[0] >= e.P0[0]-Epsilon && p[0] <= e.P1[0]+Epsilon &&
		p[1] >= e.P0[1]-Epsilon && p[1] <= e.P1[1]+Epsilon
}

///////////////////////////////////////////////////////////////////////////
// Lines and segments

// LineLineIntersect returns the intersection point of the two lines
// specified by the vertices (p1, p2) and (p3, p4). An additional returned
// Boolean value indicates whether a valid intersection was found. (There's
// no intersection for parallel lines, and none may be found in cases with
// tricky numerics.)
func LineLineIntersect(p1, p2, p3, p4 Point) (Point, bool) {
	d12 := Sub(p1, p2)
	d34 := Sub(p3, p4)
	denom := d12[0]*d34[1] - d12[1]*d34[0]
	if Abs(denom) < 1e-9 {
		return Point{}, false
	}
	numx := (p1[0]*p2[1]-p1[1]*p2[0])*(p3[0]-p4[0]) - (p1[0]-p2[0])*(p3[0]*p4[1]-p3[1]*p4[0])
	numy := (p1[0]*p2[1]-p1[1]*p2[0])*(p3[1]-p4[1]) - (p1[1]-p2[1])*(p3[0]*p4[1]-p3[1]*p4[0])
	return Point{numx / denom, numy / denom}, true
}

// SegmentSegmentIntersect returns the intersection point of the two line
// segments specified by the vertices (p1, p2) and (p3, p4), and whether
// the intersection falls within both segments.
func SegmentSegmentIntersect(p1, p2, p3, p4 Point) (Point, bool) {
	p, ok := LineLineIntersect(p1, p2, p3, p4)
	if !ok {
		return Point{}, false
	}
	b0 := Extent2DFromPoints([]Point{p1, p2})
	b1 := Extent2DFromPoints([]Point{p3, p4})
	return p, b0.Inside(p) && b1.Inside(p)
}

// SignedPointLineDistance returns the signed distance from the point p to
// the infinite line defined by (p0, p1); points to the right of the
// directed line (p0->p1) have negative distances.
func SignedPointLineDistance(p, p0, p1 Point) float64 {
	dx, dy := p1[0]-p0[0], p1[1]-p0[1]
	sq := dx*dx + dy*dy
	if sq == 0 {
		return Infinity
	}
	return (dx*(p0[1]-p[1]) - dy*(p0[0]-p[0])) / Sqrt(sq)
}

// PointLineDistance returns the minimum distance from p to the infinite
// line defined by (p0, p1).
func PointLineDistance(p, p0, p1 Point) float64 {
	return Abs(SignedPointLineDistance(p, p0, p1))
}

// PointSegmentDistance returns the minimum distance from the point p to
// the segment vw. This is the SSD/OSD primitive used by Swap-Closer.
// https://stackoverflow.com/a/1501725
func PointSegmentDistance(p, v, w Point) float64 {
	l := Sub(w, v)
	l2 := Dot(l, l)
	if l2 == 0 {
		return Distance(p, v)
	}
	t := Clamp(Dot(Sub(p, v), l)/l2, 0, 1)
	proj := Add(v, Scale(l, t))
	return Distance(p, proj)
}

// ClosestPointOnSegment returns the closest point to p on the segment vw,
// along with the parametric t in [0,1] at which it occurs.
func ClosestPointOnSegment(p, v, w Point) (Point, float64) {
	l := Sub(w, v)
	l2 := Dot(l, l)
	if l2 == 0 {
		return v, 0
	}
	t := Clamp(Dot(Sub(p, v), l)/l2, 0, 1)
	return Add(v, Scale(l, t)), t
}

///////////////////////////////////////////////////////////////////////////
// Circles and disks

// Circle is a circular region of the world, as used both for SAM ranges
// and for the tangent-arc-tangent shortest path construction.
type Circle struct {
	Center Point
	Radius float64
}

// SegmentIntersectsDisk reports whether the closed segment (a,b) enters
// the open disk of the given circle. A segment that only touches the
// boundary does not count: boundary touches are not intersections.
func SegmentIntersectsDisk(a, b Point, c Circle) bool {
	d := PointSegmentDistance(c.Center, a, b)
	return d < c.Radius-Epsilon
}

// CirclePoints returns the vertices of a unit circle centered at the
// origin, tessellated into nsegs segments, in counterclockwise order.
// Grounded on the teacher's pkg/math.CirclePoints, which memoizes the
// same tessellation for reuse; this planner calls it rarely enough
// (once per SAM cluster per solve) that the memoization isn't worth the
// shared mutable state, so it is computed fresh each time.
func CirclePoints(nsegs int) []Point {
	pts := make([]Point, nsegs)
	for d := 0; d < nsegs; d++ {
		angle := Radians(float64(d) / float64(nsegs) * 360)
		pts[d] = Point{gomath.Cos(angle), gomath.Sin(angle)}
	}
	return pts
}

// SampleCircle returns a CCW polygonal approximation of the given circle.
// The angular step is minSegLen/radius clamped to [pi/36, pi/6], so each
// segment's arc length is about minSegLen only when that step falls inside
// the range; at least 8 vertices are always returned.
func SampleCircle(c Circle, minSegLen float64) []Point {
	const minStep = Pi / 36
	const maxStep = Pi / 6

	step := maxStep
	if c.Radius > 0 {
		if s := minSegLen / c.Radius; s < step {
			step = s
		}
	}
	step = Clamp(step, minStep, maxStep)

	nsegs := int(gomath.Ceil(2 * Pi / step))
	if nsegs < 8 {
		nsegs = 8
	}

	unit := CirclePoints(nsegs)
	pts := make([]Point, nsegs)
	for i, u := range unit {
		pts[i] = Add(c.Center, Scale(u, c.Radius))
	}
	return pts
}

///////////////////////////////////////////////////////////////////////////
// Polygons

// PointInPolygon checks whether the given point is strictly inside the
// given polygon; it assumes that the last vertex does not repeat the
// first one, and so includes the edge from pts[len(pts)-1] to pts[0] in
// its test. Points exactly on the boundary are not considered inside,
// matching spec.md's strict-interior exclusion rule.
func PointInPolygon(p Point, pts []Point) bool {
	inside := false
	for i := 0; i < len(pts); i++ {
		p0, p1 := pts[i], pts[(i+1)%len(pts)]
		if PointSegmentDistance(p, p0, p1) < Epsilon {
			return false
		}
		if (p0[1] <= p[1] && p[1] < p1[1]) || (p1[1] <= p[1] && p[1] < p0[1]) {
			x := p0[0] + (p[1]-p0[1])*(p1[0]-p0[0])/(p1[1]-p0[1])
			if x > p[0] {
				inside = !inside
			}
		}
	}
	return inside
}

// ConvexHull computes the convex hull of the given points using the
// monotone chain algorithm, dropping duplicate and colinear points. It
// returns a CCW polygon; inputs with fewer than 3 resulting vertices are
// returned as-is (the degenerate set).
// https://en.wikibooks.org/wiki/Algorithm_Implementation/Geometry/Convex_hull/Monotone_chain
func ConvexHull(points []Point) []Point {
	pts := dedupPoints(points)
	n := len(pts)
	if n <= 2 {
		return pts
	}

	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] == pts[j][0] {
			return pts[i][1] < pts[j][1]
		}
		return pts[i][0] < pts[j][0]
	})

	cross := func(o, a, b Point) float64 { return Cross2D(Sub(a, o), Sub(b, o)) }

	lower := make([]Point, 0, n)
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]Point, 0, n)
	for i := n - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	// The construction above can leave < 3 vertices for near-degenerate
	// input (e.g. all points colinear); return whatever was found rather
	// than panicking.
	return hull
}

func dedupPoints(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		dup := false
		for _, q := range out {
			if Distance(p, q) < Epsilon {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

///////////////////////////////////////////////////////////////////////////
// Tangent lines

// TangentPoints returns the two points on the given circle at which lines
// from the external point are tangent to the circle, in deterministic
// (CCW then CW) order so that callers building a path get a stable choice
// between the two ways around an obstacle. The second return value is
// false if the point is inside (or on) the circle, in which case no
// tangents exist.
func TangentPoints(external Point, c Circle) (ccw, cw Point, ok bool) {
	d := Distance(external, c.Center)
	if d <= c.Radius+Epsilon {
		return Point{}, Point{}, false
	}

	// Angle from center->external to center->tangent point.
	theta := gomath.Acos(c.Radius / d)
	base := gomath.Atan2(external[1]-c.Center[1], external[0]-c.Center[0])
	// The direction from the circle's center to the external point, plus
	// and minus theta, gives the two tangent directions.
	a1 := base + theta
	a2 := base - theta

	t1 := Add(c.Center, Point{c.Radius * gomath.Cos(a1), c.Radius * gomath.Sin(a1)})
	t2 := Add(c.Center, Point{c.Radius * gomath.Cos(a2), c.Radius * gomath.Sin(a2)})

	// Orient deterministically: the tangent point that is counterclockwise
	// from external (as seen from the center) is returned first.
	if Cross2D(Sub(external, c.Center), Sub(t1, c.Center)) > 0 {
		return t1, t2, true
	}
	return t2, t1, true
}
