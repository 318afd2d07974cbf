// pkg/optimize/snapshot.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package optimize implements the three post-solve passes that refine a
// Solution without re-running the allocator or the Held-Karp solver:
// Insert-Missed, Swap-Closer, and Crossing-Removal. All three are
// strictly non-worsening: a pass that would leave the solution worse than
// it found it returns the pre-pass snapshot unchanged instead.
package optimize

import (
	"github.com/brunoga/deep"
	"github.com/isrplan/engine/pkg/isrenv"
	"github.com/isrplan/engine/pkg/util"
)

// snapshot deep-copies a Solution so a pass can try a move and roll it back
// if it turns out not to help.
func snapshot(sol isrenv.Solution) isrenv.Solution {
	return deep.MustCopy(sol)
}

// totalPoints is the score a pass must never decrease.
func totalPoints(sol isrenv.Solution) int {
	total := 0
	for _, r := range sol.Routes {
		total += r.Points
	}
	return total
}

// totalDistance is the secondary score: among solutions with equal points,
// shorter is better.
func totalDistance(sol isrenv.Solution) float64 {
	var total float64
	for _, r := range sol.Routes {
		total += r.Distance
	}
	return total
}

// betterOrEqual reports whether a is at least as good as b: strictly more
// points, or equal points and no worse total distance.
func betterOrEqual(a, b isrenv.Solution) bool {
	pa, pb := totalPoints(a), totalPoints(b)
	if pa != pb {
		return pa > pb
	}
	return totalDistance(a) <= totalDistance(b)+1e-6
}

// stateHash is a deterministic fingerprint of a solution's routes, used by
// Swap-Closer to detect oscillation between a small number of states.
func stateHash(sol isrenv.Solution) uint64 {
	ids := util.SortedMapKeys(sol.Routes)

	var b []byte
	for _, id := range ids {
		r := sol.Routes[id]
		b = append(b, id...)
		b = append(b, ':')
		for _, wp := range r.Waypoints {
			b = append(b, wp...)
			b = append(b, ',')
		}
		b = append(b, ';')
	}
	return util.HashString64(string(b))
}
