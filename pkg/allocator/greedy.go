// pkg/allocator/greedy.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package allocator

import (
	"sort"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
)

// allocateGreedy visits targets in descending priority order and assigns
// each to the fuel-feasible, capability-matching drone whose start/end
// airports are geographically closest to it.
func allocateGreedy(states []*droneState, targets []isrenv.Target, matrix *distmatrix.Matrix) {
	ordered := append([]isrenv.Target(nil), targets...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].ID < ordered[j].ID
	})

	for _, t := range ordered {
		bestDrone := -1
		bestAt := -1
		bestAirportDist := geom.Infinity

		for di, s := range states {
			if !s.cfg.Accepts(t.Type) {
				continue
			}

			start, end := s.route[0], s.route[len(s.route)-1]
			airportDist := geom.Abs(matrix.Distance(start, t.ID))
			if d := matrix.Distance(end, t.ID); d < airportDist {
				airportDist = d
			}

			cost, at := cheapestInsertion(s.route, t.ID, matrix)
			if at < 0 || routeDistance(s.route, matrix)+cost > s.cfg.FuelBudget+geom.Epsilon {
				continue
			}

			if airportDist < bestAirportDist {
				bestAirportDist = airportDist
				bestDrone = di
				bestAt = at
			}
		}

		if bestDrone == -1 {
			continue // no feasible drone: omitted, per spec.
		}

		s := states[bestDrone]
		s.route = insertAt(s.route, bestAt, t.ID)
		s.assigned = append(s.assigned, t.ID)
	}
}
