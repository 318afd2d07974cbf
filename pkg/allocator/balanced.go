// pkg/allocator/balanced.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package allocator

import (
	"sort"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
)

// allocateBalanced packs targets by descending priority into drones,
// always offering the next target to the capable, feasible drone currently
// holding the fewest targets, so visited counts stay equal modulo 1.
func allocateBalanced(states []*droneState, targets []isrenv.Target, matrix *distmatrix.Matrix) {
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
		bestCount := 1 << 30
		bestCost := geom.Infinity

		for di, s := range states {
			if !s.cfg.Accepts(t.Type) {
				continue
			}
			cost, at := cheapestInsertion(s.route, t.ID, matrix)
			if at < 0 || routeDistance(s.route, matrix)+cost > s.cfg.FuelBudget+geom.Epsilon {
				continue
			}

			count := len(s.assigned)
			if count < bestCount || (count == bestCount && cost < bestCost) {
				bestCount = count
				bestCost = cost
				bestDrone = di
				bestAt = at
			}
		}

		if bestDrone == -1 {
			continue
		}

		s := states[bestDrone]
		s.route = insertAt(s.route, bestAt, t.ID)
		s.assigned = append(s.assigned, t.ID)
	}
}
