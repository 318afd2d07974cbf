// pkg/optimize/crossingremoval.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package optimize

import (
	"context"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
	"github.com/isrplan/engine/pkg/trajectory"
	"github.com/isrplan/engine/pkg/util"
)

// CrossingRemoval applies 2-opt independently to each drone's route:
// whenever two non-adjacent edges' straight-line representations cross,
// it reverses the sub-route between them and keeps the reversal only if
// the recomputed total distance strictly decreases and stays within
// budget. It returns the number of crossings fixed.
func CrossingRemoval(ctx context.Context, sol isrenv.Solution, env *isrenv.Environment, drones []isrenv.DroneConfig, matrix *distmatrix.Matrix) (isrenv.Solution, int, error) {
	budget := make(map[string]float64, len(drones))
	for _, d := range drones {
		budget[d.ID] = d.FuelBudget
	}
	pos := positions(env)

	cur := snapshot(sol)
	fixes := 0

	for droneID, route := range cur.Routes {
		if err := ctx.Err(); err != nil {
			return cur, fixes, err
		}

		wp, n := route.Waypoints, route.Distance
		improved := true
		for improved {
			improved = false
			for i := 0; i+1 < len(wp); i++ {
				for j := i + 2; j+1 < len(wp); j++ {
					a, b := wp[i], wp[i+1]
					c, d := wp[j], wp[j+1]
					if a == d || b == c {
						continue
					}
					if _, ok := geom.SegmentSegmentIntersect(pos[a], pos[b], pos[c], pos[d]); !ok {
						continue
					}

					candidate := reversed(wp, i+1, j)
					newDist := routeDistance(candidate, matrix)
					if newDist < n-geom.Epsilon && newDist <= budget[droneID]+geom.Epsilon {
						wp = candidate
						n = newDist
						improved = true
						fixes++
					}
				}
			}
		}

		route.Waypoints = wp
		route.Distance = n
		if poly, err := trajectory.Expand(wp, matrix); err == nil {
			route.Trajectory = poly
		}
		cur.Routes[droneID] = route
	}

	if !betterOrEqual(cur, sol) {
		return snapshot(sol), 0, nil
	}
	return cur, fixes, nil
}

// reversed returns a copy of wp with the [i,j] sub-slice reversed.
func reversed(wp []string, i, j int) []string {
	out := append([]string{}, wp[:i]...)
	for v := range util.SliceReverseValues(wp[i : j+1]) {
		out = append(out, v)
	}
	out = append(out, wp[j+1:]...)
	return out
}
