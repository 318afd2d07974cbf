// pkg/optimize/crossingremoval_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package optimize

import (
	"context"
	"testing"

	"github.com/isrplan/engine/pkg/isrenv"
)

// TestCrossingRemovalUncrossesRoute builds a route that visits four
// targets in an order whose straight-line edges cross (a classic 2-opt
// improvement case) and checks the fix both removes the crossing and
// strictly shortens the route.
func TestCrossingRemovalUncrossesRoute(t *testing.T) {
	// Corner targets such that the naive order A1->T1->T3->T2->A1 crosses
	// itself like a bowtie; the 2-opt fix (reverse T3..T2) turns it into
	// the non-crossing perimeter order.
	env := &isrenv.Environment{
		Airports: []isrenv.Airport{{ID: "A1", X: 0, Y: 0}},
		Targets: []isrenv.Target{
			{ID: "T1", X: 10, Y: 0, Type: "A", Priority: 1},
			{ID: "T2", X: 10, Y: 10, Type: "A", Priority: 1},
			{ID: "T3", X: 0, Y: 10, Type: "A", Priority: 1},
		},
	}
	drones := []isrenv.DroneConfig{
		{ID: "D1", Enabled: true, FuelBudget: 1000, StartAirport: "A1", EndAirport: "A1", TargetAccess: map[string]bool{"A": true}},
	}
	m := buildTestMatrix(t, env)

	crossed := []string{"A1", "T1", "T3", "T2", "A1"}
	sol := isrenv.Solution{
		Routes: map[string]isrenv.Route{
			"D1": {DroneID: "D1", Waypoints: crossed, Distance: routeDistance(crossed, m), Points: 3},
		},
		Allocations: map[string][]string{"D1": {"T1", "T2", "T3"}},
	}
	startDist := sol.Routes["D1"].Distance

	next, fixes, err := CrossingRemoval(context.Background(), sol, env, drones, m)
	if err != nil {
		t.Fatal(err)
	}
	if fixes == 0 {
		t.Fatal("expected at least one crossing fix")
	}
	got := next.Routes["D1"]
	if got.Distance >= startDist {
		t.Errorf("distance = %v, want strictly less than %v", got.Distance, startDist)
	}
	if got.Points != 3 {
		t.Errorf("points changed: got %d, want 3", got.Points)
	}
}

func TestCrossingRemovalNoOpWhenAlreadyOptimal(t *testing.T) {
	env := &isrenv.Environment{
		Airports: []isrenv.Airport{{ID: "A1", X: 0, Y: 0}},
		Targets: []isrenv.Target{
			{ID: "T1", X: 10, Y: 0, Type: "A", Priority: 1},
			{ID: "T2", X: 10, Y: 10, Type: "A", Priority: 1},
		},
	}
	drones := []isrenv.DroneConfig{
		{ID: "D1", Enabled: true, FuelBudget: 1000, StartAirport: "A1", EndAirport: "A1", TargetAccess: map[string]bool{"A": true}},
	}
	m := buildTestMatrix(t, env)

	wp := []string{"A1", "T1", "T2", "A1"}
	sol := isrenv.Solution{
		Routes: map[string]isrenv.Route{
			"D1": {DroneID: "D1", Waypoints: wp, Distance: routeDistance(wp, m), Points: 2},
		},
		Allocations: map[string][]string{"D1": {"T1", "T2"}},
	}

	next, fixes, err := CrossingRemoval(context.Background(), sol, env, drones, m)
	if err != nil {
		t.Fatal(err)
	}
	if fixes != 0 {
		t.Errorf("fixes = %d, want 0", fixes)
	}
	if next.Routes["D1"].Distance != sol.Routes["D1"].Distance {
		t.Errorf("distance changed on an already-optimal route")
	}
}
