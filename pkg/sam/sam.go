// pkg/sam/sam.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package sam clusters overlapping circular no-fly zones into convex
// "wrapped polygons," the obstacle representation the distance matrix and
// trajectory planner route around.
package sam

import (
	"sort"

	earcut "github.com/mmp/earcut-go"

	"github.com/isrplan/engine/pkg/geom"
)

// SAM is a single circular no-fly zone: position plus a strictly positive
// range.
type SAM struct {
	ID    string
	Pos   geom.Point
	Range float64
}

// WrappedPolygon is the convex hull of one cluster of overlapping SAM
// disks: the canonical obstacle handed to the distance matrix and
// trajectory planner instead of the raw circles, so that inter-disk
// tangents across a merged cluster don't need special-casing.
type WrappedPolygon struct {
	Members  []string     // ids of the SAMs folded into this cluster, sorted
	Vertices []geom.Point // CCW convex hull

	tris []earcut.Triangle
}

// Wrap clusters overlapping SAM disks via union-find (disks union when
// their center distance is at most the sum of their ranges), then computes
// the convex hull of each cluster's sampled disk boundaries. Clusters whose
// hull degenerates to fewer than 3 vertices are dropped, per spec.
func Wrap(sams []SAM) []WrappedPolygon {
	uf := newUnionFind(len(sams))
	for i := range sams {
		for j := i + 1; j < len(sams); j++ {
			if geom.Distance(sams[i].Pos, sams[j].Pos) <= sams[i].Range+sams[j].Range {
				uf.union(i, j)
			}
		}
	}

	clusters := make(map[int][]int)
	for i := range sams {
		r := uf.find(i)
		clusters[r] = append(clusters[r], i)
	}

	roots := make([]int, 0, len(clusters))
	for r := range clusters {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	var polys []WrappedPolygon
	for _, r := range roots {
		members := clusters[r]

		var boundary []geom.Point
		for _, idx := range members {
			c := geom.Circle{Center: sams[idx].Pos, Radius: sams[idx].Range}
			boundary = append(boundary, geom.SampleCircle(c, sams[idx].Range/6)...)
		}

		hull := geom.ConvexHull(boundary)
		if len(hull) < 3 {
			continue
		}

		ids := make([]string, len(members))
		for i, idx := range members {
			ids[i] = sams[idx].ID
		}
		sort.Strings(ids)

		wp := WrappedPolygon{Members: ids, Vertices: hull}
		wp.triangulate()
		polys = append(polys, wp)
	}

	return polys
}

// triangulate builds the earcut mesh used by Contains so repeated
// point-in-polygon queries (excluded-target detection, the trajectory
// planner's SAM-entry check) run as point-in-triangle tests
// rather than re-walking every hull edge.
func (wp *WrappedPolygon) triangulate() {
	if len(wp.Vertices) < 3 {
		wp.tris = nil
		return
	}

	verts := make([]earcut.Vertex, len(wp.Vertices))
	for i, v := range wp.Vertices {
		verts[i].P = [2]float64{v.X(), v.Y()}
	}
	wp.tris = earcut.Triangulate(earcut.Polygon{Rings: [][]earcut.Vertex{verts}})
}

// Contains reports whether p lies strictly inside the polygon. Boundary
// touches do not count, matching geom.PointInPolygon's strict-interior
// rule.
func (wp *WrappedPolygon) Contains(p geom.Point) bool {
	for _, tri := range wp.tris {
		var t [3]geom.Point
		for i, v := range tri.Vertices {
			t[i] = geom.Point{v.P[0], v.P[1]}
		}
		if geom.PointInPolygon(p, t[:]) {
			return true
		}
	}
	return false
}

// IntersectsSegment reports whether the closed segment a-b enters this
// polygon's interior: the test the distance matrix uses to decide whether a
// candidate straight edge needs a tangent-arc-tangent detour around this
// cluster.
func (wp *WrappedPolygon) IntersectsSegment(a, b geom.Point) bool {
	n := len(wp.Vertices)
	if n < 3 {
		return false
	}
	if wp.Contains(a) || wp.Contains(b) {
		return true
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if _, ok := geom.SegmentSegmentIntersect(a, b, wp.Vertices[i], wp.Vertices[j]); ok {
			return true
		}
	}
	return false
}

// AnyContains reports whether p lies strictly inside any of the given
// wrapped polygons, and if so, returns the index of the first one.
func AnyContains(polys []WrappedPolygon, p geom.Point) (int, bool) {
	for i := range polys {
		if polys[i].Contains(p) {
			return i, true
		}
	}
	return -1, false
}

///////////////////////////////////////////////////////////////////////////
// union-find

// unionFind is a small disjoint-set structure for clustering overlapping
// disks. The algorithm is a handful of lines and has no natural home in any
// third-party dependency the rest of the module draws on, so it is
// hand-rolled rather than imported.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}
