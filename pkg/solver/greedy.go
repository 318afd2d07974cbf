// pkg/solver/greedy.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package solver

import (
	"context"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
)

// solveGreedy is the documented backstop for candidate counts beyond
// DefaultCandidateCap, where the exact DP's state space is too large: it
// repeatedly appends whichever remaining candidate has the best
// priority-per-added-distance ratio and still fits the budget, trying every
// candidate end and keeping the best result.
func solveGreedy(ctx context.Context, start string, ends []string, candidates []isrenv.Target, fuelBudget float64, matrix *distmatrix.Matrix) (Result, error) {
	var best Result
	bestPoints := -1
	bestDistance := geom.Infinity

	for _, end := range ends {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}

		r := greedyRouteFor(start, end, candidates, fuelBudget, matrix)
		better := r.Points > bestPoints ||
			(r.Points == bestPoints && r.Distance < bestDistance-geom.Epsilon)
		if better {
			best = r
			bestPoints = r.Points
			bestDistance = r.Distance
		}
	}

	best.UsedFallback = true
	return best, nil
}

func greedyRouteFor(start, end string, candidates []isrenv.Target, fuelBudget float64, matrix *distmatrix.Matrix) Result {
	remaining := append([]isrenv.Target(nil), candidates...)
	route := []string{start, end}
	points := 0

	for len(remaining) > 0 {
		bestIdx := -1
		bestAt := -1
		bestRatio := -1.0

		for i, t := range remaining {
			for at := 0; at+1 < len(route); at++ {
				a, b := route[at], route[at+1]
				cost := matrix.Distance(a, t.ID) + matrix.Distance(t.ID, b) - matrix.Distance(a, b)
				if routeDistance(route, matrix)+cost > fuelBudget+geom.Epsilon {
					continue
				}
				ratio := float64(t.Priority) / (cost + geom.Epsilon)
				if ratio > bestRatio {
					bestRatio = ratio
					bestIdx = i
					bestAt = at + 1
				}
			}
		}

		if bestIdx == -1 {
			break
		}

		route = append(route[:bestAt], append([]string{remaining[bestIdx].ID}, route[bestAt:]...)...)
		points += remaining[bestIdx].Priority
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return Result{Waypoints: route, Points: points, Distance: routeDistance(route, matrix)}
}

func routeDistance(route []string, matrix *distmatrix.Matrix) float64 {
	var total float64
	for i := 0; i+1 < len(route); i++ {
		total += matrix.Distance(route[i], route[i+1])
	}
	return total
}
