// pkg/planner/route.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package planner

import (
	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/isrenv"
	"github.com/isrplan/engine/pkg/log"
	"github.com/isrplan/engine/pkg/solver"
	"github.com/isrplan/engine/pkg/trajectory"
)

// expandRoute turns a solver.Result into an isrenv.Route by expanding its
// waypoint sequence into a SAM-avoiding polyline. A trajectory failure
// (ErrMissingEdge/ErrEntersSAM) is logged but not fatal to the overall
// solve: the route is returned with a warning and an empty trajectory,
// so one drone's stale-matrix bug doesn't fail every other drone's route.
func expandRoute(lg *log.Logger, droneID string, res solver.Result, matrix *distmatrix.Matrix) (isrenv.Route, error) {
	route := isrenv.Route{
		DroneID:   droneID,
		Waypoints: res.Waypoints,
		Points:    res.Points,
		Distance:  res.Distance,
	}
	if res.UsedFallback {
		route.Warnings = append(route.Warnings, "candidate set exceeded the exact solver's cap; used greedy fallback")
	}

	traj := trajectory.ExpandLogged(lg, droneID, res.Waypoints, matrix)
	if traj == nil && len(res.Waypoints) > 1 {
		route.Warnings = append(route.Warnings, "trajectory expansion failed; route waypoints are present but unplottable")
		return route, nil
	}
	route.Trajectory = traj
	return route, nil
}
