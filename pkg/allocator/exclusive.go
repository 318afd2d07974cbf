// pkg/allocator/exclusive.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package allocator

import (
	"sort"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
)

// allocateExclusive scores every (target, drone) pair by
// priority × capability × proximity, then runs a one-pass auction: pairs
// are visited in descending score order and a target is assigned to the
// first (highest-scoring) drone it fits, which guarantees each target ends
// up on at most one drone without a second reconciliation pass.
func allocateExclusive(states []*droneState, targets []isrenv.Target, matrix *distmatrix.Matrix) {
	type bid struct {
		targetIdx, drone int
		score            float64
	}

	var bids []bid
	for ti, t := range targets {
		for di, s := range states {
			if !s.cfg.Accepts(t.Type) {
				continue
			}
			start, end := s.route[0], s.route[len(s.route)-1]
			d := matrix.Distance(start, t.ID)
			if e := matrix.Distance(end, t.ID); e < d {
				d = e
			}
			score := float64(t.Priority) / (1 + d)
			bids = append(bids, bid{ti, di, score})
		}
	}

	sort.Slice(bids, func(i, j int) bool {
		if bids[i].score != bids[j].score {
			return bids[i].score > bids[j].score
		}
		if targets[bids[i].targetIdx].ID != targets[bids[j].targetIdx].ID {
			return targets[bids[i].targetIdx].ID < targets[bids[j].targetIdx].ID
		}
		return states[bids[i].drone].cfg.ID < states[bids[j].drone].cfg.ID
	})

	assigned := make([]bool, len(targets))
	for _, b := range bids {
		if assigned[b.targetIdx] {
			continue
		}
		s := states[b.drone]
		t := targets[b.targetIdx]

		cost, at := cheapestInsertion(s.route, t.ID, matrix)
		if at < 0 || routeDistance(s.route, matrix)+cost > s.cfg.FuelBudget+geom.Epsilon {
			continue
		}

		s.route = insertAt(s.route, at, t.ID)
		s.assigned = append(s.assigned, t.ID)
		assigned[b.targetIdx] = true
	}
}
