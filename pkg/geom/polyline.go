// pkg/geom/polyline.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geom

// PolylineLength returns the total length of the polyline, i.e. the sum
// of the lengths of its constituent segments.
func PolylineLength(poly []Point) float64 {
	var total float64
	for i := 1; i < len(poly); i++ {
		total += Distance(poly[i-1], poly[i])
	}
	return total
}

// SplitPolylineAtDistance splits poly at the point that is distance d
// along it, clamping d to [0, total]. It returns the prefix (poly up to
// and including the split point), the suffix (the split point through the
// end of poly), the split point itself, the polyline's total length, the
// index of the segment the split falls within, and the parametric t in
// [0,1] along that segment. The split never produces a prefix/suffix pair
// with a duplicate endpoint closer together than Epsilon: if the split
// point lands within Epsilon of an existing vertex, that vertex is reused
// rather than inserting a near-duplicate.
func SplitPolylineAtDistance(poly []Point, d float64) (prefix, suffix []Point, splitPoint Point, total float64, splitIndex int, t float64) {
	total = PolylineLength(poly)
	if len(poly) == 0 {
		return nil, nil, Point{}, 0, 0, 0
	}
	d = Clamp(d, 0, total)

	var traveled float64
	for i := 1; i < len(poly); i++ {
		segLen := Distance(poly[i-1], poly[i])
		if traveled+segLen >= d || i == len(poly)-1 {
			remaining := d - traveled
			segT := 0.0
			if segLen > Epsilon {
				segT = Clamp(remaining/segLen, 0, 1)
			}
			split := LerpPoint(segT, poly[i-1], poly[i])

			switch {
			case Distance(split, poly[i-1]) < Epsilon:
				prefix = append(append([]Point{}, poly[:i]...))
				suffix = append([]Point{}, poly[i-1:]...)
				return prefix, suffix, poly[i-1], total, i - 1, 0
			case Distance(split, poly[i]) < Epsilon:
				prefix = append([]Point{}, poly[:i+1]...)
				suffix = append([]Point{}, poly[i:]...)
				return prefix, suffix, poly[i], total, i, 1
			default:
				prefix = append(append([]Point{}, poly[:i]...), split)
				suffix = append([]Point{split}, poly[i:]...)
				return prefix, suffix, split, total, i - 1, segT
			}
		}
		traveled += segLen
	}

	// d >= total: the whole polyline is the prefix.
	last := poly[len(poly)-1]
	return append([]Point{}, poly...), []Point{last}, last, total, len(poly) - 2, 1
}

// InterpolatePolyline returns the point at distance d along poly, clamped
// to [0, PolylineLength(poly)].
func InterpolatePolyline(poly []Point, d float64) Point {
	_, _, p, _, _, _ := SplitPolylineAtDistance(poly, d)
	return p
}

// JoinPolylines concatenates a sequence of polylines end-to-start,
// de-duplicating the shared junction point between consecutive polylines
// when they are within Epsilon of each other (as they should always be,
// since each comes from the distance matrix's cached per-edge paths).
func JoinPolylines(polys ...[]Point) []Point {
	var out []Point
	for _, p := range polys {
		if len(p) == 0 {
			continue
		}
		if len(out) > 0 && Distance(out[len(out)-1], p[0]) < Epsilon {
			out = append(out, p[1:]...)
		} else {
			out = append(out, p...)
		}
	}
	return out
}
