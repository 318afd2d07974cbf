// pkg/allocator/allocator.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package allocator partitions a mission's admissible targets across
// enabled drones under one of five strategies, before each drone's
// allocation is independently ordered by pkg/solver.
package allocator

import (
	"sort"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
)

// positions maps every waypoint id in env to its world position, for the
// geographic strategy's k-means clustering and centroid-to-airport
// matching (the only place the allocator needs raw coordinates rather than
// SAM-aware matrix distances).
func positions(env *isrenv.Environment) map[string]geom.Point {
	p := make(map[string]geom.Point, len(env.Airports)+len(env.Targets)+len(env.SyntheticStarts))
	for _, a := range env.Airports {
		p[a.ID] = a.Pos()
	}
	for _, t := range env.Targets {
		p[t.ID] = t.Pos()
	}
	for _, s := range env.SyntheticStarts {
		p[s.ID] = s.Pos()
	}
	return p
}

// Strategy selects which partitioning heuristic Allocate runs.
type Strategy string

const (
	Efficient  Strategy = "efficient"
	Greedy     Strategy = "greedy"
	Balanced   Strategy = "balanced"
	Geographic Strategy = "geographic"
	Exclusive  Strategy = "exclusive"
)

// Allocate partitions the admissible targets (type-filterable per drone and
// not excluded by the distance matrix) among the enabled drones, according
// to strategy. seed parameterizes the geographic strategy's k-means
// initialization; it is ignored by the other four strategies.
func Allocate(strategy Strategy, env *isrenv.Environment, drones []isrenv.DroneConfig, matrix *distmatrix.Matrix, seed uint64) (map[string][]string, error) {
	enabled := enabledDrones(drones)
	admissible := admissibleTargets(env, enabled, matrix)

	result := make(map[string][]string, len(enabled))
	for _, d := range enabled {
		result[d.ID] = nil
	}
	if len(enabled) == 0 || len(admissible) == 0 {
		return result, nil
	}

	states := newDroneStates(enabled, matrix)

	switch strategy {
	case Greedy:
		allocateGreedy(states, admissible, matrix)
	case Balanced:
		allocateBalanced(states, admissible, matrix)
	case Geographic:
		allocateGeographic(states, admissible, matrix, positions(env), seed)
	case Exclusive:
		allocateExclusive(states, admissible, matrix)
	case Efficient:
		fallthrough
	default:
		allocateEfficient(states, admissible, matrix)
	}

	for _, s := range states {
		result[s.cfg.ID] = s.assigned
	}
	return result, nil
}

func enabledDrones(drones []isrenv.DroneConfig) []isrenv.DroneConfig {
	var out []isrenv.DroneConfig
	for _, d := range drones {
		if d.Enabled {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// admissibleTargets returns targets not excluded by the distance matrix
// that at least one enabled drone can visit, sorted by id for determinism.
func admissibleTargets(env *isrenv.Environment, enabled []isrenv.DroneConfig, matrix *distmatrix.Matrix) []isrenv.Target {
	var out []isrenv.Target
	for _, t := range env.Targets {
		if matrix.IsExcluded(t.ID) {
			continue
		}
		for _, d := range enabled {
			if d.Accepts(t.Type) {
				out = append(out, t)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// droneState tracks one drone's simulated route while the allocator builds
// up its allocation. The route here is only ever used to estimate insertion
// cost and fuel feasibility; pkg/solver later finds the true optimal subset
// and order independently, so approximate ordering here is harmless.
type droneState struct {
	cfg      isrenv.DroneConfig
	route    []string
	assigned []string
}

func newDroneStates(enabled []isrenv.DroneConfig, matrix *distmatrix.Matrix) []*droneState {
	states := make([]*droneState, len(enabled))
	for i, d := range enabled {
		end := d.EndAirport
		if d.AnyAirport() {
			end = d.StartAirport
		}
		states[i] = &droneState{cfg: d, route: []string{d.StartAirport, end}}
	}
	return states
}

// cheapestInsertion returns the minimum-cost position to insert targetID
// into route and the resulting marginal distance increase.
func cheapestInsertion(route []string, targetID string, matrix *distmatrix.Matrix) (cost float64, at int) {
	best := geom.Infinity
	bestIdx := -1
	for i := 0; i+1 < len(route); i++ {
		a, b := route[i], route[i+1]
		c := matrix.Distance(a, targetID) + matrix.Distance(targetID, b) - matrix.Distance(a, b)
		if c < best {
			best = c
			bestIdx = i + 1
		}
	}
	return best, bestIdx
}

func routeDistance(route []string, matrix *distmatrix.Matrix) float64 {
	var total float64
	for i := 0; i+1 < len(route); i++ {
		total += matrix.Distance(route[i], route[i+1])
	}
	return total
}

func insertAt(route []string, idx int, id string) []string {
	out := make([]string, 0, len(route)+1)
	out = append(out, route[:idx]...)
	out = append(out, id)
	out = append(out, route[idx:]...)
	return out
}
