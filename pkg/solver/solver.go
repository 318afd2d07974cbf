// pkg/solver/solver.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package solver runs the per-drone exact orienteering solve: given a set
// of candidate targets, a start, an end (or "any airport"), and a fuel
// budget, it selects and orders the subset of candidates that maximizes
// total priority subject to total polyline length staying within budget.
package solver

import (
	"context"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
)

// DefaultCandidateCap is the largest candidate count the exact Held-Karp DP
// is run against; beyond it, Solve falls back to a greedy heuristic.
const DefaultCandidateCap = 15

// Result is one drone's solved route before trajectory expansion.
type Result struct {
	Waypoints    []string // [start, t1, ..., tk, end]
	Points       int
	Distance     float64
	DPStates     int
	UsedFallback bool
}

// Solve selects and orders the subset of candidates visited by one drone.
// If anyAirport is true, end is ignored and the best of airportIDs is
// chosen instead, by (points desc, distance asc). candidateCap<=0 uses
// DefaultCandidateCap.
func Solve(ctx context.Context, start, end string, anyAirport bool, airportIDs []string, candidates []isrenv.Target, fuelBudget float64, matrix *distmatrix.Matrix, candidateCap int) (Result, error) {
	if candidateCap <= 0 {
		candidateCap = DefaultCandidateCap
	}

	ends := []string{end}
	if anyAirport {
		ends = airportIDs
	}
	if len(ends) == 0 {
		ends = []string{start}
	}

	if len(candidates) == 0 {
		return solveEmpty(start, ends, fuelBudget, matrix)
	}

	if len(candidates) > candidateCap {
		return solveGreedy(ctx, start, ends, candidates, fuelBudget, matrix)
	}

	return solveExact(ctx, start, ends, candidates, fuelBudget, matrix)
}

func solveEmpty(start string, ends []string, fuelBudget float64, matrix *distmatrix.Matrix) (Result, error) {
	bestEnd := ""
	bestDist := geom.Infinity
	for _, e := range ends {
		if d := matrix.Distance(start, e); d < bestDist {
			bestDist = d
			bestEnd = e
		}
	}
	if bestEnd == "" || bestDist > fuelBudget+geom.Epsilon {
		return Result{}, nil // infeasible: empty route, points=0.
	}
	return Result{Waypoints: []string{start, bestEnd}, Points: 0, Distance: bestDist}, nil
}
