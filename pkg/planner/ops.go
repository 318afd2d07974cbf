// pkg/planner/ops.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package planner

import (
	"context"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/isrenv"
	"github.com/isrplan/engine/pkg/optimize"
	"github.com/isrplan/engine/pkg/trajectory"
)

// InsertMissed greedily inserts any omitted target into the cheapest
// fuel-feasible position across every drone's route, repeating until no
// further insertion fits.
func (p *Planner) InsertMissed(ctx context.Context, sol isrenv.Solution, env *isrenv.Environment, drones []isrenv.DroneConfig) (isrenv.Solution, error) {
	matrix, err := p.Matrix(ctx, env)
	if err != nil {
		return sol, internalInvariantViolation("computing distance matrix: %v", err)
	}
	next, inserted, err := optimize.InsertMissed(ctx, sol, env, drones, matrix)
	if err != nil {
		return sol, internalInvariantViolation("insert-missed: %v", err)
	}
	p.Log.Infof("planner: insert-missed placed %d target(s)", inserted)
	return next, nil
}

// SwapCloser moves targets to whichever drone's route passes closer to
// them, as long as doing so doesn't change total priority collected. It
// returns iteration/convergence telemetry alongside the (possibly
// unchanged) solution, matching the teacher's style of reporting resource
// usage without forcing every caller to introspect Stats for it.
func (p *Planner) SwapCloser(ctx context.Context, sol isrenv.Solution, env *isrenv.Environment, drones []isrenv.DroneConfig) (isrenv.Solution, int, int, bool, bool, error) {
	matrix, err := p.Matrix(ctx, env)
	if err != nil {
		return sol, 0, 0, false, false, internalInvariantViolation("computing distance matrix: %v", err)
	}
	next, iterations, swaps, converged, cycleDetected := optimize.SwapCloser(ctx, sol, env, drones, matrix)
	return next, iterations, swaps, converged, cycleDetected, nil
}

// CrossingRemoval uncrosses any drone's route via 2-opt where doing so
// strictly shortens it and stays within budget.
func (p *Planner) CrossingRemoval(ctx context.Context, sol isrenv.Solution, env *isrenv.Environment, drones []isrenv.DroneConfig) (isrenv.Solution, int, error) {
	matrix, err := p.Matrix(ctx, env)
	if err != nil {
		return sol, 0, internalInvariantViolation("computing distance matrix: %v", err)
	}
	next, fixes, err := optimize.CrossingRemoval(ctx, sol, env, drones, matrix)
	if err != nil {
		return sol, 0, internalInvariantViolation("crossing-removal: %v", err)
	}
	return next, fixes, nil
}

// ApplySequence builds a Route for droneID by expanding an explicit,
// caller-specified waypoint sequence rather than letting the solver choose
// one — used when a human operator overrides the automatic plan. It
// rejects sequences that exceed fuelBudget rather than silently truncating
// them.
func (p *Planner) ApplySequence(ctx context.Context, droneID string, sequence []string, env *isrenv.Environment, fuelBudget float64) (isrenv.Route, error) {
	if len(sequence) < 2 {
		return isrenv.Route{}, invalidInput("drone %s: sequence must have at least a start and an end", droneID)
	}

	matrix, err := p.Matrix(ctx, env)
	if err != nil {
		return isrenv.Route{}, internalInvariantViolation("computing distance matrix: %v", err)
	}

	for i := 0; i+1 < len(sequence); i++ {
		if _, ok := matrix.Path(sequence[i], sequence[i+1]); !ok {
			return isrenv.Route{}, invalidInput("drone %s: no path from %q to %q", droneID, sequence[i], sequence[i+1])
		}
	}

	dist := sequenceDistance(sequence, matrix)
	if dist > fuelBudget+1e-6 {
		return isrenv.Route{}, &PlannerError{Kind: ErrInfeasible, Detail: "sequence exceeds fuel budget"}
	}

	points := sequencePoints(sequence, env)
	traj := trajectory.ExpandLogged(p.Log, droneID, sequence, matrix)

	route := isrenv.Route{
		DroneID:    droneID,
		Waypoints:  sequence,
		Trajectory: traj,
		Points:     points,
		Distance:   dist,
	}
	if traj == nil {
		route.Warnings = append(route.Warnings, "trajectory expansion failed; route waypoints are present but unplottable")
	}
	return route, nil
}

func sequenceDistance(sequence []string, matrix *distmatrix.Matrix) float64 {
	var total float64
	for i := 0; i+1 < len(sequence); i++ {
		total += matrix.Distance(sequence[i], sequence[i+1])
	}
	return total
}

func sequencePoints(sequence []string, env *isrenv.Environment) int {
	priority := make(map[string]int, len(env.Targets))
	for _, t := range env.Targets {
		priority[t.ID] = t.Priority
	}
	var total int
	for _, id := range sequence {
		total += priority[id]
	}
	return total
}
