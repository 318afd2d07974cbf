// pkg/distmatrix/path.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package distmatrix

import (
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/sam"
)

// shortestPath finds the shortest SAM-avoiding path between two points.
// When the direct segment is clear, that's the answer. Otherwise it builds
// a small visibility graph over u, v, and the vertices of every wrapped
// polygon the direct segment crosses, with the polygon's own hull edges
// added as free "walk the boundary" edges, and runs Dijkstra over it. This
// is the tangent-arc-tangent construction applied uniformly: the tangent
// lines from u and v to a polygon are exactly the visibility edges to its
// vertices, and walking the shorter way around the hull falls out of
// letting Dijkstra pick whichever boundary-edge direction is cheaper.
func shortestPath(u, v geom.Point, polys []sam.WrappedPolygon) ([]geom.Point, float64, bool) {
	if !anyIntersects(polys, u, v) {
		return []geom.Point{u, v}, geom.Distance(u, v), true
	}

	relevant := intersectedPolygons(polys, u, v)
	if len(relevant) == 0 {
		return []geom.Point{u, v}, geom.Distance(u, v), true
	}

	nodes := []pathNode{
		{pos: u, poly: -1, vert: -1},
		{pos: v, poly: -1, vert: -1},
	}
	for _, pi := range relevant {
		for vi := range polys[pi].Vertices {
			nodes = append(nodes, pathNode{pos: polys[pi].Vertices[vi], poly: pi, vert: vi})
		}
	}

	n := len(nodes)
	adj := make([][]pathEdge, n)
	connect := func(i, j int, d float64) {
		adj[i] = append(adj[i], pathEdge{to: j, cost: d})
		adj[j] = append(adj[j], pathEdge{to: i, cost: d})
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ni, nj := nodes[i], nodes[j]

			// Adjacent vertices of the same polygon can always walk the
			// boundary between them, regardless of what else they can see.
			if ni.poly >= 0 && ni.poly == nj.poly {
				m := len(polys[ni.poly].Vertices)
				if (nj.vert-ni.vert+m)%m == 1 || (ni.vert-nj.vert+m)%m == 1 {
					connect(i, j, geom.Distance(ni.pos, nj.pos))
					continue
				}
			}

			if !anyIntersects(polys, ni.pos, nj.pos) {
				connect(i, j, geom.Distance(ni.pos, nj.pos))
			}
		}
	}

	dist, prev, ok := dijkstra(adj, 0, 1)
	if !ok {
		return nil, 0, false
	}

	var path []geom.Point
	for at := 1; at != -1; at = prev[at] {
		path = append([]geom.Point{nodes[at].pos}, path...)
	}
	return path, dist, true
}

type pathNode struct {
	pos  geom.Point
	poly int // -1 for the two path endpoints
	vert int // vertex index within poly, -1 for the two path endpoints
}

type pathEdge struct {
	to   int
	cost float64
}

func anyIntersects(polys []sam.WrappedPolygon, a, b geom.Point) bool {
	for i := range polys {
		if polys[i].IntersectsSegment(a, b) {
			return true
		}
	}
	return false
}

func intersectedPolygons(polys []sam.WrappedPolygon, a, b geom.Point) []int {
	var idxs []int
	for i := range polys {
		if polys[i].IntersectsSegment(a, b) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// dijkstra runs over a small, densely-connected graph (a handful of
// obstacle vertices), so a plain O(n^2) scan for the minimum is simpler and
// fast enough; there's no case in this domain where it's worth a heap.
func dijkstra(adj [][]pathEdge, src, dst int) (float64, []int, bool) {
	n := len(adj)
	dist := make([]float64, n)
	prev := make([]int, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = geom.Infinity
		prev[i] = -1
	}
	dist[src] = 0

	for {
		u := -1
		best := geom.Infinity
		for i := 0; i < n; i++ {
			if !visited[i] && dist[i] < best {
				best = dist[i]
				u = i
			}
		}
		if u == -1 {
			break
		}
		visited[u] = true
		if u == dst {
			break
		}
		for _, e := range adj[u] {
			if nd := dist[u] + e.cost; nd < dist[e.to] {
				dist[e.to] = nd
				prev[e.to] = u
			}
		}
	}

	if dist[dst] == geom.Infinity {
		return 0, nil, false
	}
	return dist[dst], prev, true
}
