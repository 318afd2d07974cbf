// pkg/planner/ops_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/isrplan/engine/pkg/config"
)

func TestApplySequenceBuildsRouteWithinBudget(t *testing.T) {
	env, _ := sampleEnvAndDrones()
	p := New(config.Default(), nil)

	route, err := p.ApplySequence(context.Background(), "D1", []string{"A1", "T1", "T2", "A2"}, env, 500)
	if err != nil {
		t.Fatalf("ApplySequence: %v", err)
	}
	if route.Distance <= 0 {
		t.Error("expected a positive distance")
	}
	if route.Points != 8 {
		t.Errorf("points = %d, want 8", route.Points)
	}
}

func TestApplySequenceRejectsOverBudget(t *testing.T) {
	env, _ := sampleEnvAndDrones()
	p := New(config.Default(), nil)

	_, err := p.ApplySequence(context.Background(), "D1", []string{"A1", "T1", "T2", "A2"}, env, 10)
	if err == nil {
		t.Fatal("expected an infeasibility error")
	}
	if !errors.Is(err, ErrInfeasible) {
		t.Errorf("got %v, want ErrInfeasible", err)
	}
}

func TestApplySequenceRejectsTooShortSequence(t *testing.T) {
	env, _ := sampleEnvAndDrones()
	p := New(config.Default(), nil)

	_, err := p.ApplySequence(context.Background(), "D1", []string{"A1"}, env, 500)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestApplySequenceRejectsUnknownWaypoint(t *testing.T) {
	env, _ := sampleEnvAndDrones()
	p := New(config.Default(), nil)

	_, err := p.ApplySequence(context.Background(), "D1", []string{"A1", "T99", "A2"}, env, 500)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestInsertMissedWrapperPlacesOmittedTarget(t *testing.T) {
	env, drones := sampleEnvAndDrones()
	p := New(config.Default(), nil)

	sol, err := p.Solve(context.Background(), env, drones, SolveOptions{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	// Drop T2 from the route to simulate a miss, then let InsertMissed
	// place it back.
	route := sol.Routes["D1"]
	route.Waypoints = []string{"A1", "T1", "A2"}
	sol.Routes["D1"] = route

	next, err := p.InsertMissed(context.Background(), sol, env, drones)
	if err != nil {
		t.Fatalf("InsertMissed: %v", err)
	}
	found := false
	for _, id := range next.Routes["D1"].Waypoints {
		if id == "T2" {
			found = true
		}
	}
	if !found {
		t.Error("expected T2 to be reinserted")
	}
}
