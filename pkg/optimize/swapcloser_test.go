// pkg/optimize/swapcloser_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package optimize

import (
	"context"
	"testing"

	"github.com/isrplan/engine/pkg/isrenv"
)

// TestSwapCloserMovesTargetToCloserDrone mirrors the "Swap-Closer across
// drones" scenario: T3 sits on D1's route but lies almost exactly on D2's
// (T4,T5) segment, so Swap-Closer should move it over, shrinking D1's
// route and growing D2's while leaving total points unchanged.
func TestSwapCloserMovesTargetToCloserDrone(t *testing.T) {
	env := &isrenv.Environment{
		Airports: []isrenv.Airport{
			{ID: "A1", X: 0, Y: 0},
			{ID: "A2", X: 100, Y: 0},
		},
		Targets: []isrenv.Target{
			{ID: "T1", X: 10, Y: 30, Type: "A", Priority: 3},
			{ID: "T2", X: 20, Y: 30, Type: "A", Priority: 3},
			{ID: "T3", X: 70, Y: 1, Type: "A", Priority: 5}, // nearly on the A2-side segment
			{ID: "T4", X: 60, Y: 0, Type: "A", Priority: 2},
			{ID: "T5", X: 90, Y: 0, Type: "A", Priority: 2},
		},
	}
	drones := []isrenv.DroneConfig{
		{ID: "D1", Enabled: true, FuelBudget: 1000, StartAirport: "A1", EndAirport: "A1", TargetAccess: map[string]bool{"A": true}},
		{ID: "D2", Enabled: true, FuelBudget: 1000, StartAirport: "A2", EndAirport: "A2", TargetAccess: map[string]bool{"A": true}},
	}
	m := buildTestMatrix(t, env)

	d1wp := []string{"A1", "T1", "T2", "T3", "A1"}
	d2wp := []string{"A2", "T4", "T5", "A2"}
	sol := isrenv.Solution{
		Routes: map[string]isrenv.Route{
			"D1": {DroneID: "D1", Waypoints: d1wp, Distance: routeDistance(d1wp, m), Points: 3 + 3 + 5},
			"D2": {DroneID: "D2", Waypoints: d2wp, Distance: routeDistance(d2wp, m), Points: 2 + 2},
		},
		Allocations: map[string][]string{
			"D1": {"T1", "T2", "T3"},
			"D2": {"T4", "T5"},
		},
	}
	startD1, startD2 := sol.Routes["D1"].Distance, sol.Routes["D2"].Distance
	startTotal := totalPoints(sol)

	next, _, swaps, _, _ := SwapCloser(context.Background(), sol, env, drones, m)

	if swaps == 0 {
		t.Fatal("expected at least one swap")
	}
	if totalPoints(next) != startTotal {
		t.Errorf("points changed: got %d, want %d", totalPoints(next), startTotal)
	}

	d1, d2 := next.Routes["D1"], next.Routes["D2"]
	onD1 := contains(d1.Waypoints, "T3")
	onD2 := contains(d2.Waypoints, "T3")
	if onD1 || !onD2 {
		t.Fatalf("expected T3 to move to D2; D1=%v D2=%v", d1.Waypoints, d2.Waypoints)
	}
	if d1.Distance >= startD1 {
		t.Errorf("D1 distance = %v, want strictly less than %v", d1.Distance, startD1)
	}
	if d2.Distance < startD2 {
		t.Errorf("D2 distance = %v, want >= %v", d2.Distance, startD2)
	}
}

func TestSwapCloserConvergesWithNoBeneficialMove(t *testing.T) {
	env := &isrenv.Environment{
		Airports: []isrenv.Airport{{ID: "A1", X: 0, Y: 0}, {ID: "A2", X: 100, Y: 0}},
		Targets: []isrenv.Target{
			{ID: "T1", X: 10, Y: 1, Type: "A", Priority: 3},
		},
	}
	drones := []isrenv.DroneConfig{
		{ID: "D1", Enabled: true, FuelBudget: 1000, StartAirport: "A1", EndAirport: "A1", TargetAccess: map[string]bool{"A": true}},
		{ID: "D2", Enabled: true, FuelBudget: 1000, StartAirport: "A2", EndAirport: "A2", TargetAccess: map[string]bool{"A": true}},
	}
	m := buildTestMatrix(t, env)

	d1wp := []string{"A1", "T1", "A1"}
	d2wp := []string{"A2", "A2"}
	sol := isrenv.Solution{
		Routes: map[string]isrenv.Route{
			"D1": {DroneID: "D1", Waypoints: d1wp, Distance: routeDistance(d1wp, m), Points: 3},
			"D2": {DroneID: "D2", Waypoints: d2wp, Distance: routeDistance(d2wp, m), Points: 0},
		},
		Allocations: map[string][]string{"D1": {"T1"}, "D2": nil},
	}

	_, iterations, swaps, converged, cycleDetected := SwapCloser(context.Background(), sol, env, drones, m)
	if !converged {
		t.Error("expected convergence with no beneficial move available")
	}
	if cycleDetected {
		t.Error("did not expect a cycle")
	}
	if swaps != 0 {
		t.Errorf("swaps = %d, want 0", swaps)
	}
	if iterations != 0 {
		t.Errorf("iterations = %d, want 0", iterations)
	}
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
