// pkg/allocator/efficient.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package allocator

import (
	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
)

// allocateEfficient repeatedly assigns the unassigned target with the
// globally cheapest feasible marginal insertion cost, across all drones,
// breaking ties by higher priority-per-unit-fuel.
func allocateEfficient(states []*droneState, targets []isrenv.Target, matrix *distmatrix.Matrix) {
	remaining := append([]isrenv.Target(nil), targets...)

	for len(remaining) > 0 {
		bestCost := geom.Infinity
		bestRatio := -1.0
		bestDrone := -1
		bestTargetIdx := -1
		bestAt := -1

		for ti, t := range remaining {
			for di, s := range states {
				if !s.cfg.Accepts(t.Type) {
					continue
				}
				cost, at := cheapestInsertion(s.route, t.ID, matrix)
				if at < 0 {
					continue
				}
				if routeDistance(s.route, matrix)+cost > s.cfg.FuelBudget+geom.Epsilon {
					continue
				}

				ratio := float64(t.Priority) / (cost + geom.Epsilon)
				better := cost < bestCost-geom.Epsilon
				tie := !better && cost < bestCost+geom.Epsilon && ratio > bestRatio
				if bestDrone == -1 || better || tie {
					bestCost = cost
					bestRatio = ratio
					bestDrone = di
					bestTargetIdx = ti
					bestAt = at
				}
			}
		}

		if bestDrone == -1 {
			// No remaining target fits any drone within budget.
			return
		}

		s := states[bestDrone]
		t := remaining[bestTargetIdx]
		s.route = insertAt(s.route, bestAt, t.ID)
		s.assigned = append(s.assigned, t.ID)
		remaining = append(remaining[:bestTargetIdx], remaining[bestTargetIdx+1:]...)
	}
}
