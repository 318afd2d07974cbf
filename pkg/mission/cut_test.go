// pkg/mission/cut_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

import (
	"testing"

	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
)

func TestCutFreezesPositionAndMarksVisitedTargets(t *testing.T) {
	env := isrenv.Environment{
		Airports: []isrenv.Airport{{ID: "A1", X: 0, Y: 0}, {ID: "A2", X: 100, Y: 0}},
		Targets: []isrenv.Target{
			{ID: "T1", X: 20, Y: 0, Priority: 5},
			{ID: "T2", X: 80, Y: 0, Priority: 5},
		},
	}
	drones := []isrenv.DroneConfig{{ID: "D1", StartAirport: "A1", FuelBudget: 500}}
	sol := isrenv.Solution{Routes: map[string]isrenv.Route{
		"D1": {
			DroneID:    "D1",
			Waypoints:  []string{"A1", "T1", "T2", "A2"},
			Trajectory: []geom.Point{{0, 0}, {20, 0}, {80, 0}, {100, 0}},
		},
	}}

	newEnv, newDrones, result := Cut(&env, drones, sol, 40, DefaultVisitedProximity)

	if result.MissionDistance != 40 {
		t.Errorf("MissionDistance = %v, want 40", result.MissionDistance)
	}
	frozen, ok := result.FrozenPositions["D1"]
	if !ok {
		t.Fatal("D1 missing from FrozenPositions")
	}
	if frozen != (geom.Point{40, 0}) {
		t.Errorf("frozen position = %v, want {40 0}", frozen)
	}

	// T1 sits at arc length 20 (<= 40) and right on the trajectory, so it's
	// visited; T2 sits at arc length 80 (> 40), so it isn't yet.
	if len(result.VisitedTargets) != 1 || result.VisitedTargets[0] != "T1" {
		t.Errorf("VisitedTargets = %v, want [T1]", result.VisitedTargets)
	}

	for _, target := range newEnv.Targets {
		if target.ID == "T1" {
			t.Error("T1 should have been dropped from the replan environment")
		}
	}
	if len(newEnv.Targets) != 1 || newEnv.Targets[0].ID != "T2" {
		t.Errorf("newEnv.Targets = %+v, want just T2", newEnv.Targets)
	}

	if len(newEnv.SyntheticStarts) != 1 {
		t.Fatalf("SyntheticStarts = %+v, want one entry", newEnv.SyntheticStarts)
	}
	ss := newEnv.SyntheticStarts[0]
	if ss.ID != "D1_START" || ss.X != 40 || ss.Y != 0 {
		t.Errorf("synthetic start = %+v, want D1_START at (40,0)", ss)
	}

	if len(newDrones) != 1 || newDrones[0].StartAirport != "D1_START" {
		t.Errorf("newDrones = %+v, want StartAirport D1_START", newDrones)
	}
}

func TestCutLeavesDistantTargetsUnvisited(t *testing.T) {
	env := isrenv.Environment{
		Airports: []isrenv.Airport{{ID: "A1", X: 0, Y: 0}, {ID: "A2", X: 100, Y: 0}},
		Targets: []isrenv.Target{
			{ID: "T1", X: 20, Y: 50, Priority: 5}, // far off the route line
		},
	}
	drones := []isrenv.DroneConfig{{ID: "D1", StartAirport: "A1", FuelBudget: 500}}
	sol := isrenv.Solution{Routes: map[string]isrenv.Route{
		"D1": {
			DroneID:    "D1",
			Waypoints:  []string{"A1", "T1", "A2"},
			Trajectory: []geom.Point{{0, 0}, {20, 0}, {100, 0}},
		},
	}}

	_, _, result := Cut(&env, drones, sol, 40, DefaultVisitedProximity)
	if len(result.VisitedTargets) != 0 {
		t.Errorf("VisitedTargets = %v, want none (target is 50 units off the polyline)", result.VisitedTargets)
	}
}

func TestClosestOnPolylineAccumulatesArcLength(t *testing.T) {
	poly := []geom.Point{{0, 0}, {10, 0}, {10, 10}}
	closest, arc, ok := closestOnPolyline(poly, geom.Point{10, 5})
	if !ok {
		t.Fatal("expected ok")
	}
	if closest != (geom.Point{10, 5}) {
		t.Errorf("closest = %v, want {10 5}", closest)
	}
	if arc != 15 {
		t.Errorf("arc = %v, want 15", arc)
	}
}

func TestCutClampsMissionDistanceToTrajectoryLength(t *testing.T) {
	env := isrenv.Environment{Airports: []isrenv.Airport{{ID: "A1"}, {ID: "A2", X: 50}}}
	drones := []isrenv.DroneConfig{{ID: "D1", StartAirport: "A1", FuelBudget: 500}}
	sol := isrenv.Solution{Routes: map[string]isrenv.Route{
		"D1": {DroneID: "D1", Waypoints: []string{"A1", "A2"}, Trajectory: []geom.Point{{0, 0}, {50, 0}}},
	}}

	_, _, result := Cut(&env, drones, sol, 1000, DefaultVisitedProximity)
	if result.FrozenPositions["D1"] != (geom.Point{50, 0}) {
		t.Errorf("frozen position = %v, want clamped to {50 0}", result.FrozenPositions["D1"])
	}
}
