// pkg/allocator/geographic.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package allocator

import (
	"sort"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
	"github.com/isrplan/engine/pkg/rand"
)

const kMeansIterations = 20

// allocateGeographic clusters targets into K=len(states) partitions by
// k-means on (x,y), then matches cluster i to the drone whose start airport
// is nearest the cluster's centroid. Each drone then takes its matched
// cluster's targets via cheapest insertion, skipping any that don't fit its
// fuel budget.
func allocateGeographic(states []*droneState, targets []isrenv.Target, matrix *distmatrix.Matrix, pos map[string]geom.Point, seed uint64) {
	k := len(states)
	if k == 0 || len(targets) == 0 {
		return
	}
	if k > len(targets) {
		k = len(targets)
	}

	r := rand.New()
	r.Seed(seed)

	pts := make([]geom.Point, len(targets))
	for i, t := range targets {
		pts[i] = t.Pos()
	}

	centroids := kMeansPlusPlusInit(pts, k, &r)
	assignment := make([]int, len(pts))

	for iter := 0; iter < kMeansIterations; iter++ {
		changed := false
		for i, p := range pts {
			best := 0
			bestDist := geom.Distance(p, centroids[0])
			for c := 1; c < k; c++ {
				if d := geom.Distance(p, centroids[c]); d < bestDist {
					bestDist = d
					best = c
				}
			}
			if assignment[i] != best {
				assignment[i] = best
				changed = true
			}
		}

		sums := make([]geom.Point, k)
		counts := make([]int, k)
		for i, p := range pts {
			c := assignment[i]
			sums[c] = geom.Add(sums[c], p)
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] > 0 {
				centroids[c] = geom.Scale(sums[c], 1/float64(counts[c]))
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	// Match cluster i to the nearest not-yet-matched drone by
	// start-airport-to-centroid distance, processing clusters in order of
	// their closest available match (a simple greedy bipartite match is
	// enough here; fleets are small, ≤5 drones).
	type pair struct {
		cluster, drone int
		dist           float64
	}
	var pairs []pair
	for c := 0; c < k; c++ {
		for di, s := range states {
			startPos, ok := pos[s.route[0]]
			if !ok {
				continue
			}
			pairs = append(pairs, pair{c, di, geom.Distance(startPos, centroids[c])})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].dist < pairs[j].dist })

	clusterMatched := make([]bool, k)
	droneMatched := make([]bool, len(states))
	clusterDrone := make(map[int]int)
	for _, p := range pairs {
		if clusterMatched[p.cluster] || droneMatched[p.drone] {
			continue
		}
		clusterMatched[p.cluster] = true
		droneMatched[p.drone] = true
		clusterDrone[p.cluster] = p.drone
	}

	byCluster := make(map[int][]isrenv.Target)
	for i, t := range targets {
		byCluster[assignment[i]] = append(byCluster[assignment[i]], t)
	}

	for c, ts := range byCluster {
		di, ok := clusterDrone[c]
		if !ok {
			continue
		}
		s := states[di]
		sort.Slice(ts, func(i, j int) bool {
			if ts[i].Priority != ts[j].Priority {
				return ts[i].Priority > ts[j].Priority
			}
			return ts[i].ID < ts[j].ID
		})
		for _, t := range ts {
			if !s.cfg.Accepts(t.Type) {
				continue
			}
			cost, at := cheapestInsertion(s.route, t.ID, matrix)
			if at < 0 || routeDistance(s.route, matrix)+cost > s.cfg.FuelBudget+geom.Epsilon {
				continue
			}
			s.route = insertAt(s.route, at, t.ID)
			s.assigned = append(s.assigned, t.ID)
		}
	}
}

// kMeansPlusPlusInit picks k initial centroids via k-means++ weighted
// sampling, using the seeded deterministic RNG so the same environment
// hash always clusters the same way.
func kMeansPlusPlusInit(pts []geom.Point, k int, r *rand.Rand) []geom.Point {
	centroids := make([]geom.Point, 0, k)
	first := pts[r.Intn(len(pts))]
	centroids = append(centroids, first)

	for len(centroids) < k {
		distSq := make([]float64, len(pts))
		var total float64
		for i, p := range pts {
			best := geom.Infinity
			for _, c := range centroids {
				if d := geom.Distance(p, c); d < best {
					best = d
				}
			}
			distSq[i] = best * best
			total += distSq[i]
		}

		if total == 0 {
			centroids = append(centroids, pts[r.Intn(len(pts))])
			continue
		}

		target := float64(r.Int31n(1<<30)) / float64(int32(1<<30)) * total
		var cum float64
		chosen := len(pts) - 1
		for i, d := range distSq {
			cum += d
			if cum >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, pts[chosen])
	}
	return centroids
}
