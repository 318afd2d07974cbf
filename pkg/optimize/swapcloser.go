// pkg/optimize/swapcloser.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package optimize

import (
	"context"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
	"github.com/isrplan/engine/pkg/trajectory"
)

// maxSwapCloserPasses bounds the iteration loop even when cycle detection
// hasn't yet caught a repeat; it is well above any pass count observed to
// converge on realistic fleet sizes.
const maxSwapCloserPasses = 50

// SwapCloser repeatedly looks for a single target that sits closer to
// another drone's route than to its own, and moves it there, until no
// such move exists, a state repeats (cycle_detected), or
// maxSwapCloserPasses is reached. It returns the best-scoring solution
// seen across all passes, never one worse than the input.
func SwapCloser(ctx context.Context, sol isrenv.Solution, env *isrenv.Environment, drones []isrenv.DroneConfig, matrix *distmatrix.Matrix) (result isrenv.Solution, iterations int, swaps int, converged bool, cycleDetected bool) {
	budget := make(map[string]float64, len(drones))
	accepts := make(map[string]isrenv.DroneConfig, len(drones))
	for _, d := range drones {
		budget[d.ID] = d.FuelBudget
		accepts[d.ID] = d
	}
	targetType := make(map[string]string, len(env.Targets))
	targetPriority := make(map[string]int, len(env.Targets))
	for _, t := range env.Targets {
		targetType[t.ID] = t.Type
		targetPriority[t.ID] = t.Priority
	}
	pos := positions(env)

	cur := snapshot(sol)
	best := snapshot(sol)
	seen := map[uint64]bool{stateHash(cur): true}

	for iterations = 0; iterations < maxSwapCloserPasses; iterations++ {
		if err := ctx.Err(); err != nil {
			return best, iterations, swaps, false, false
		}

		move, ok := bestSwapCloserMove(cur, accepts, targetType, pos, budget, matrix)
		if !ok {
			converged = true
			break
		}

		next := applySwapCloserMove(cur, move, targetPriority[move.targetID], matrix)
		h := stateHash(next)
		cur = next
		if betterOrEqual(cur, best) {
			best = snapshot(cur)
		}
		swaps++

		if seen[h] {
			cycleDetected = true
			break
		}
		seen[h] = true
	}

	return best, iterations, swaps, converged, cycleDetected
}

// positions maps every id in env (airport, target, or synthetic start) to
// its coordinates, for the perpendicular-distance checks Swap-Closer needs
// independent of the distance matrix's SAM-aware routing.
func positions(env *isrenv.Environment) map[string]geom.Point {
	pos := make(map[string]geom.Point, len(env.Airports)+len(env.Targets)+len(env.SyntheticStarts))
	for _, a := range env.Airports {
		pos[a.ID] = a.Pos()
	}
	for _, t := range env.Targets {
		pos[t.ID] = t.Pos()
	}
	for _, s := range env.SyntheticStarts {
		pos[s.ID] = s.Pos()
	}
	return pos
}

type swapCloserMove struct {
	targetID           string
	fromDrone, toDrone string
	fromAt             int // index of targetID in fromDrone's waypoints
	toAt               int // insertion index in toDrone's waypoints
	osd                float64
}

// bestSwapCloserMove scans every target currently on a route for a
// cheaper (lower perpendicular distance) home on another drone's route,
// per the Self/Other-Segment-Distance rule: a target only moves if some
// other route segment passes closer to it than its own neighbors do.
func bestSwapCloserMove(sol isrenv.Solution, accepts map[string]isrenv.DroneConfig, targetType map[string]string, pos map[string]geom.Point, budget map[string]float64, matrix *distmatrix.Matrix) (swapCloserMove, bool) {
	var best swapCloserMove
	found := false

	for fromID, route := range sol.Routes {
		for i := 1; i+1 < len(route.Waypoints); i++ {
			targetID := route.Waypoints[i]
			tType, isTarget := targetType[targetID]
			if !isTarget {
				continue
			}

			prev, next := route.Waypoints[i-1], route.Waypoints[i+1]
			ssd := geom.PointSegmentDistance(pos[targetID], pos[prev], pos[next])
			if ssd < geom.Epsilon {
				continue // "no SSD, no movement"
			}

			for toID, other := range sol.Routes {
				if toID == fromID {
					continue
				}
				cfg, ok := accepts[toID]
				if !ok || !cfg.Accepts(tType) {
					continue
				}

				for j := 0; j+1 < len(other.Waypoints); j++ {
					p, q := other.Waypoints[j], other.Waypoints[j+1]
					osd := geom.PointSegmentDistance(pos[targetID], pos[p], pos[q])
					if osd >= ssd-geom.Epsilon {
						continue
					}

					added := matrix.Distance(p, targetID) + matrix.Distance(targetID, q) - matrix.Distance(p, q)
					if other.Distance+added > budget[toID]+geom.Epsilon {
						continue
					}

					if !found || osd < best.osd-geom.Epsilon ||
						(osd <= best.osd+geom.Epsilon && lowerTieBreak(targetID, toID, best.targetID, best.toDrone)) {
						best = swapCloserMove{
							targetID: targetID, fromDrone: fromID, toDrone: toID,
							fromAt: i, toAt: j + 1, osd: osd,
						}
						found = true
					}
				}
			}
		}
	}

	return best, found
}

// lowerTieBreak implements the documented deterministic tie-break for
// equal-OSD candidates: lower target id, then lower destination drone id.
func lowerTieBreak(targetID, toDrone, bestTarget, bestTo string) bool {
	if targetID != bestTarget {
		return targetID < bestTarget
	}
	return toDrone < bestTo
}

func applySwapCloserMove(sol isrenv.Solution, m swapCloserMove, points int, matrix *distmatrix.Matrix) isrenv.Solution {
	next := snapshot(sol)

	from := next.Routes[m.fromDrone]
	fromWP := append([]string{}, from.Waypoints[:m.fromAt]...)
	fromWP = append(fromWP, from.Waypoints[m.fromAt+1:]...)
	from.Waypoints = fromWP
	from.Distance = routeDistance(fromWP, matrix)
	from.Points -= points
	if poly, err := trajectory.Expand(fromWP, matrix); err == nil {
		from.Trajectory = poly
	}
	next.Routes[m.fromDrone] = from

	to := next.Routes[m.toDrone]
	toWP := append([]string{}, to.Waypoints[:m.toAt]...)
	toWP = append(toWP, m.targetID)
	toWP = append(toWP, to.Waypoints[m.toAt:]...)
	to.Waypoints = toWP
	to.Distance = routeDistance(toWP, matrix)
	to.Points += points
	if poly, err := trajectory.Expand(toWP, matrix); err == nil {
		to.Trajectory = poly
	}
	next.Routes[m.toDrone] = to

	next.Allocations[m.fromDrone] = removeID(next.Allocations[m.fromDrone], m.targetID)
	next.Allocations[m.toDrone] = append(next.Allocations[m.toDrone], m.targetID)

	return next
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func routeDistance(route []string, matrix *distmatrix.Matrix) float64 {
	var total float64
	for i := 0; i+1 < len(route); i++ {
		total += matrix.Distance(route[i], route[i+1])
	}
	return total
}
