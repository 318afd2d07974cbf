// pkg/optimize/insertmissed.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package optimize

import (
	"context"
	"sort"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
	"github.com/isrplan/engine/pkg/trajectory"
	"github.com/isrplan/engine/pkg/util"
)

// InsertMissed enumerates targets present in none of sol's routes and
// greedily inserts each into whichever fuel-feasible drone route can take
// it most cheaply, repeating until no further insertion fits. It never
// removes a waypoint, so it can never reduce the point total; it returns
// the number of targets successfully inserted.
func InsertMissed(ctx context.Context, sol isrenv.Solution, env *isrenv.Environment, drones []isrenv.DroneConfig, matrix *distmatrix.Matrix) (isrenv.Solution, int, error) {
	cur := snapshot(sol)
	budget := make(map[string]float64, len(drones))
	for _, d := range drones {
		budget[d.ID] = d.FuelBudget
	}

	inserted := 0
	for {
		if err := ctx.Err(); err != nil {
			return cur, inserted, err
		}

		missed := missingTargets(cur, env)
		if len(missed) == 0 {
			break
		}

		type candidate struct {
			targetID, droneID string
			at                int
			cost              float64
			priority          int
		}
		var best *candidate

		for _, t := range missed {
			for _, d := range drones {
				if !d.Enabled || !d.Accepts(t.Type) {
					continue
				}
				route, ok := cur.Routes[d.ID]
				if !ok || len(route.Waypoints) < 2 {
					continue
				}
				for at := 0; at+1 < len(route.Waypoints); at++ {
					a, b := route.Waypoints[at], route.Waypoints[at+1]
					cost := matrix.Distance(a, t.ID) + matrix.Distance(t.ID, b) - matrix.Distance(a, b)
					if route.Distance+cost > budget[d.ID]+geom.Epsilon {
						continue
					}
					ratio := float64(t.Priority) / (cost + geom.Epsilon)
					if best == nil || ratio > float64(best.priority)/(best.cost+geom.Epsilon) {
						best = &candidate{targetID: t.ID, droneID: d.ID, at: at + 1, cost: cost, priority: t.Priority}
					}
				}
			}
		}

		if best == nil {
			break
		}

		route := cur.Routes[best.droneID]
		wp := util.InsertSliceElement(util.DuplicateSlice(route.Waypoints), best.at, best.targetID)
		route.Waypoints = wp
		route.Distance += best.cost
		route.Points += best.priority
		if poly, err := trajectory.Expand(wp, matrix); err == nil {
			route.Trajectory = poly
		}
		cur.Routes[best.droneID] = route
		cur.Allocations[best.droneID] = append(cur.Allocations[best.droneID], best.targetID)
		inserted++
	}

	return cur, inserted, nil
}

func missingTargets(sol isrenv.Solution, env *isrenv.Environment) []isrenv.Target {
	visited := make(map[string]bool)
	for _, r := range sol.Routes {
		for _, wp := range r.Waypoints {
			visited[wp] = true
		}
	}
	excluded := make(map[string]bool, len(sol.ExcludedTargets))
	for _, id := range sol.ExcludedTargets {
		excluded[id] = true
	}

	var missed []isrenv.Target
	for _, t := range env.Targets {
		if !visited[t.ID] && !excluded[t.ID] {
			missed = append(missed, t)
		}
	}
	sort.Slice(missed, func(i, j int) bool { return missed[i].ID < missed[j].ID })
	return missed
}
