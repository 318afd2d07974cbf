// pkg/allocator/allocator_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package allocator

import (
	"context"
	"testing"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/isrenv"
)

func buildMatrix(t *testing.T, env *isrenv.Environment) *distmatrix.Matrix {
	t.Helper()

	var airports, targets, starts []distmatrix.Waypoint
	for _, a := range env.Airports {
		airports = append(airports, distmatrix.Waypoint{ID: a.ID, Pos: a.Pos()})
	}
	for _, tg := range env.Targets {
		targets = append(targets, distmatrix.Waypoint{ID: tg.ID, Pos: tg.Pos()})
	}
	for _, s := range env.SyntheticStarts {
		starts = append(starts, distmatrix.Waypoint{ID: s.ID, Pos: s.Pos()})
	}

	m, err := distmatrix.Compute(context.Background(), distmatrix.Input{
		Airports: airports, Targets: targets, SyntheticStarts: starts,
	})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func sampleEnvAndDrones() (*isrenv.Environment, []isrenv.DroneConfig) {
	env := &isrenv.Environment{
		Airports: []isrenv.Airport{
			{ID: "A1", X: 10, Y: 50},
			{ID: "A2", X: 90, Y: 50},
		},
		Targets: []isrenv.Target{
			{ID: "T1", X: 50, Y: 60, Type: "A", Priority: 5},
			{ID: "T2", X: 50, Y: 40, Type: "A", Priority: 3},
		},
	}
	drones := []isrenv.DroneConfig{
		{ID: "D1", Enabled: true, FuelBudget: 120, StartAirport: "A1", EndAirport: "A2",
			TargetAccess: map[string]bool{"A": true}},
	}
	return env, drones
}

func TestAllocateEfficientAssignsAllFeasibleTargets(t *testing.T) {
	env, drones := sampleEnvAndDrones()
	m := buildMatrix(t, env)

	alloc, err := Allocate(Efficient, env, drones, m, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(alloc["D1"]); got != 2 {
		t.Fatalf("expected both targets assigned to D1, got %d: %v", got, alloc["D1"])
	}
}

func TestAllocateRespectsCapabilityFilter(t *testing.T) {
	env, drones := sampleEnvAndDrones()
	env.Targets[1].Type = "B" // D1 only accepts A
	m := buildMatrix(t, env)

	alloc, err := Allocate(Efficient, env, drones, m, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(alloc["D1"]) != 1 || alloc["D1"][0] != "T1" {
		t.Errorf("expected only T1 assigned, got %v", alloc["D1"])
	}
}

func TestAllocateOmitsInfeasibleTargets(t *testing.T) {
	env, drones := sampleEnvAndDrones()
	drones[0].FuelBudget = 1 // cannot even fly start->end
	m := buildMatrix(t, env)

	alloc, err := Allocate(Efficient, env, drones, m, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(alloc["D1"]) != 0 {
		t.Errorf("expected no feasible assignment, got %v", alloc["D1"])
	}
}

func TestAllStrategiesProduceDisjointAllocations(t *testing.T) {
	env := &isrenv.Environment{
		Airports: []isrenv.Airport{{ID: "A1", X: 10, Y: 50}, {ID: "A2", X: 90, Y: 50}},
		Targets: []isrenv.Target{
			{ID: "T1", X: 20, Y: 20, Type: "A", Priority: 5},
			{ID: "T2", X: 80, Y: 80, Type: "A", Priority: 4},
			{ID: "T3", X: 20, Y: 80, Type: "A", Priority: 3},
			{ID: "T4", X: 80, Y: 20, Type: "A", Priority: 2},
		},
	}
	drones := []isrenv.DroneConfig{
		{ID: "D1", Enabled: true, FuelBudget: 500, StartAirport: "A1", EndAirport: "A1",
			TargetAccess: map[string]bool{"A": true}},
		{ID: "D2", Enabled: true, FuelBudget: 500, StartAirport: "A2", EndAirport: "A2",
			TargetAccess: map[string]bool{"A": true}},
	}
	m := buildMatrix(t, env)

	for _, strat := range []Strategy{Efficient, Greedy, Balanced, Geographic, Exclusive} {
		alloc, err := Allocate(strat, env, drones, m, 7)
		if err != nil {
			t.Fatalf("%s: %v", strat, err)
		}
		seen := make(map[string]bool)
		for _, ids := range alloc {
			for _, id := range ids {
				if seen[id] {
					t.Errorf("%s: target %s assigned to more than one drone", strat, id)
				}
				seen[id] = true
			}
		}
	}
}
