// pkg/mission/cut.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

import (
	"fmt"

	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
	"github.com/isrplan/engine/pkg/util"
)

// DefaultVisitedProximity is the fallback proximity threshold for marking
// a target visited during a cut, in world units. Historically this value
// was 20.0; missions with closely-packed targets need the tighter 5.0
// used here, which is exposed as config.Config.VisitedProximity so a
// caller with different target spacing can override it.
const DefaultVisitedProximity = 5.0

// cutResult is everything a cut computes, carried by MissionState from
// BeginCut through to the next AcceptSolution.
type cutResult struct {
	MissionDistance float64
	FrozenPositions map[string]geom.Point
	VisitedTargets  []string
}

// Cut freezes every drone's position at missionDistance along its
// trajectory, marks targets visited up to that point, and synthesizes the
// replan environment and drone configs: the synthetic starts are added
// with ids "D{n}_START" at the frozen positions, and each drone's
// start_airport is rewritten to point at its own. It does not transition
// MissionState itself — call BeginCut with the result once the caller is
// ready to commit to CHECKPOINT.
func Cut(env *isrenv.Environment, drones []isrenv.DroneConfig, sol isrenv.Solution, missionDistance, proximity float64) (newEnv isrenv.Environment, newDrones []isrenv.DroneConfig, result cutResult) {
	if proximity <= 0 {
		proximity = DefaultVisitedProximity
	}

	frozen := make(map[string]geom.Point, len(drones))
	visitedSet := make(map[string]bool)

	for _, d := range drones {
		route, ok := sol.Routes[d.ID]
		if !ok || len(route.Trajectory) == 0 {
			continue
		}

		total := geom.PolylineLength(route.Trajectory)
		d0 := geom.Clamp(missionDistance, 0, total)
		frozen[d.ID] = geom.InterpolatePolyline(route.Trajectory, d0)

		for _, wp := range route.Waypoints {
			t, isTarget := targetByID(env, wp)
			if !isTarget {
				continue
			}
			closest, arcLen, ok := closestOnPolyline(route.Trajectory, t.Pos())
			if !ok {
				continue
			}
			if arcLen <= d0+geom.Epsilon && geom.Distance(closest, t.Pos()) <= proximity {
				visitedSet[t.ID] = true
			}
		}
	}

	visited := util.SortedMapKeys(visitedSet)

	synth := newEnvAfterCut(env, visited, frozen)
	synthDrones := newDronesAfterCut(drones, frozen)

	return synth, synthDrones, cutResult{
		MissionDistance: missionDistance,
		FrozenPositions: frozen,
		VisitedTargets:  visited,
	}
}

func targetByID(env *isrenv.Environment, id string) (isrenv.Target, bool) {
	for _, t := range env.Targets {
		if t.ID == id {
			return t, true
		}
	}
	return isrenv.Target{}, false
}

// closestOnPolyline returns the point of poly closest to p, the arc
// length traveled along poly to reach it, and whether poly was non-empty.
func closestOnPolyline(poly []geom.Point, p geom.Point) (geom.Point, float64, bool) {
	if len(poly) == 0 {
		return geom.Point{}, 0, false
	}
	if len(poly) == 1 {
		return poly[0], 0, true
	}

	var traveled float64
	best := poly[0]
	bestDist := geom.Distance(p, poly[0])
	bestArc := 0.0

	for i := 1; i < len(poly); i++ {
		seg := geom.Distance(poly[i-1], poly[i])
		closest, t := geom.ClosestPointOnSegment(p, poly[i-1], poly[i])
		if d := geom.Distance(p, closest); d < bestDist {
			bestDist = d
			best = closest
			bestArc = traveled + t*seg
		}
		traveled += seg
	}
	return best, bestArc, true
}

func newEnvAfterCut(env *isrenv.Environment, visited []string, frozen map[string]geom.Point) isrenv.Environment {
	visitedSet := make(map[string]bool, len(visited))
	for _, id := range visited {
		visitedSet[id] = true
	}

	out := isrenv.Environment{
		Airports: util.DuplicateSlice(env.Airports),
		SAMs:     util.DuplicateSlice(env.SAMs),
		Targets: util.FilterSlice(env.Targets, func(t isrenv.Target) bool {
			return !visitedSet[t.ID]
		}),
	}

	// Carry forward any synthetic starts not superseded by this cut's own
	// frozen positions (relevant when cutting a second time before the
	// first checkpoint's starts have been consumed by a solve).
	out.SyntheticStarts = util.FilterSlice(env.SyntheticStarts, func(s isrenv.SyntheticStart) bool {
		_, replaced := frozen[droneIDFromStart(s.ID)]
		return !replaced
	})

	for _, droneID := range util.SortedMapKeys(frozen) {
		pos := frozen[droneID]
		out.SyntheticStarts = append(out.SyntheticStarts, isrenv.SyntheticStart{
			ID: syntheticStartID(droneID), X: pos[0], Y: pos[1],
		})
	}

	return out
}

func newDronesAfterCut(drones []isrenv.DroneConfig, frozen map[string]geom.Point) []isrenv.DroneConfig {
	return util.MapSlice(drones, func(d isrenv.DroneConfig) isrenv.DroneConfig {
		if _, ok := frozen[d.ID]; ok {
			d.StartAirport = syntheticStartID(d.ID)
		}
		return d
	})
}

func syntheticStartID(droneID string) string {
	return fmt.Sprintf("%s_START", droneID)
}

func droneIDFromStart(startID string) string {
	const suffix = "_START"
	if len(startID) > len(suffix) && startID[len(startID)-len(suffix):] == suffix {
		return startID[:len(startID)-len(suffix)]
	}
	return startID
}
