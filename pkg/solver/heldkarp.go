// pkg/solver/heldkarp.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package solver

import (
	"context"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
)

// solveExact runs the Held-Karp DP: state = (subset of candidates, last
// visited index), value = minimum distance from start through the subset
// ending at last. The DP table doesn't depend on the end waypoint, so it is
// built once and evaluated against every candidate end (relevant when
// end_airport == "-").
func solveExact(ctx context.Context, start string, ends []string, candidates []isrenv.Target, fuelBudget float64, matrix *distmatrix.Matrix) (Result, error) {
	n := len(candidates)
	numMasks := 1 << n

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			dist[i][j] = matrix.Distance(candidates[i].ID, candidates[j].ID)
		}
	}
	startDist := make([]float64, n)
	for i := range startDist {
		startDist[i] = matrix.Distance(start, candidates[i].ID)
	}

	// dp[mask][last] and pred[mask][last] are only ever read for masks that
	// contain last, so the unused entries are left at their zero value
	// (+Inf / -1).
	dp := make([][]float64, numMasks)
	pred := make([][]int, numMasks)
	for m := range dp {
		dp[m] = make([]float64, n)
		pred[m] = make([]int, n)
		for i := range dp[m] {
			dp[m][i] = geom.Infinity
			pred[m][i] = -1
		}
	}

	for i := 0; i < n; i++ {
		dp[1<<i][i] = startDist[i]
	}

	states := 0
	for mask := 1; mask < numMasks; mask++ {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		for last := 0; last < n; last++ {
			if mask&(1<<last) == 0 || dp[mask][last] == geom.Infinity {
				continue
			}
			states++

			base := dp[mask][last]
			for next := 0; next < n; next++ {
				if mask&(1<<next) != 0 {
					continue
				}
				nmask := mask | (1 << next)
				cand := base + dist[last][next]
				if cand < dp[nmask][next] {
					dp[nmask][next] = cand
					pred[nmask][next] = last
				}
			}
		}
	}

	bestMask, bestLast, bestEnd := -1, -1, ""
	bestPoints := -1
	bestDistance := geom.Infinity

	for _, end := range ends {
		endDist := make([]float64, n)
		for i := range endDist {
			endDist[i] = matrix.Distance(candidates[i].ID, end)
		}

		for mask := 1; mask < numMasks; mask++ {
			for last := 0; last < n; last++ {
				if mask&(1<<last) == 0 || dp[mask][last] == geom.Infinity {
					continue
				}
				total := dp[mask][last] + endDist[last]
				if total > fuelBudget+geom.Epsilon {
					continue
				}

				points := subsetPoints(mask, candidates)
				better := points > bestPoints ||
					(points == bestPoints && total < bestDistance-geom.Epsilon)
				if better {
					bestPoints = points
					bestDistance = total
					bestMask = mask
					bestLast = last
					bestEnd = end
				}
			}
		}
	}

	if bestMask == -1 {
		// Not even the empty subset fits: infeasible from this start/end
		// combination (including start->end alone exceeding budget).
		return solveEmpty(start, ends, fuelBudget, matrix)
	}

	order := reconstructOrder(bestMask, bestLast, pred)
	waypoints := make([]string, 0, len(order)+2)
	waypoints = append(waypoints, start)
	for _, idx := range order {
		waypoints = append(waypoints, candidates[idx].ID)
	}
	waypoints = append(waypoints, bestEnd)

	return Result{
		Waypoints: waypoints,
		Points:    bestPoints,
		Distance:  bestDistance,
		DPStates:  states,
	}, nil
}

func subsetPoints(mask int, candidates []isrenv.Target) int {
	points := 0
	for i, c := range candidates {
		if mask&(1<<i) != 0 {
			points += c.Priority
		}
	}
	return points
}

func reconstructOrder(mask, last int, pred [][]int) []int {
	var order []int
	for last != -1 {
		order = append(order, last)
		prevLast := pred[mask][last]
		mask &^= 1 << last
		last = prevLast
	}
	// order was built backwards (last visited first).
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}
