// pkg/trajectory/trajectory.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package trajectory expands a drone's ordered waypoint list into a single
// SAM-avoiding polyline by concatenating the distance matrix's cached
// per-edge paths, and checks the result never actually enters a SAM
// polygon.
package trajectory

import (
	"fmt"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/log"
	"github.com/isrplan/engine/pkg/sam"
)

// ErrMissingEdge is returned when the matrix has no cached path between two
// consecutive waypoints; it should never happen for a route the matrix
// itself produced, so callers should treat it as an invariant violation.
type ErrMissingEdge struct {
	From, To string
}

func (e *ErrMissingEdge) Error() string {
	return fmt.Sprintf("trajectory: no cached path from %q to %q", e.From, e.To)
}

// ErrEntersSAM is returned when the expanded polyline passes inside a SAM
// polygon despite every edge having been individually routed around it;
// this should only happen if the matrix and the route it produced have
// gone out of sync (e.g. the route was built from a stale matrix).
type ErrEntersSAM struct {
	Point geom.Point
}

func (e *ErrEntersSAM) Error() string {
	return fmt.Sprintf("trajectory: polyline enters a SAM envelope at %v", e.Point)
}

// Expand concatenates the matrix's cached per-edge paths for every
// consecutive pair of waypoints in the route into one polyline, then
// verifies the result never clips a wrapped SAM polygon: both at its
// vertices and along each straight sub-segment between them, since a
// segment can clip a polygon edge between two clean vertices without
// either endpoint itself lying inside it.
func Expand(waypoints []string, matrix *distmatrix.Matrix) ([]geom.Point, error) {
	if len(waypoints) < 2 {
		return nil, nil
	}

	segments := make([][]geom.Point, 0, len(waypoints)-1)
	for i := 0; i+1 < len(waypoints); i++ {
		from, to := waypoints[i], waypoints[i+1]
		path, ok := matrix.Path(from, to)
		if !ok {
			return nil, &ErrMissingEdge{From: from, To: to}
		}
		segments = append(segments, path)
	}

	poly := geom.JoinPolylines(segments...)

	if len(poly) == 1 {
		if _, inside := sam.AnyContains(matrix.WrappedPolygons, poly[0]); inside {
			return nil, &ErrEntersSAM{Point: poly[0]}
		}
	}
	for i := 1; i < len(poly); i++ {
		a, b := poly[i-1], poly[i]
		for j := range matrix.WrappedPolygons {
			// IntersectsSegment also catches either endpoint lying
			// inside the polygon, so this subsumes a plain vertex check.
			if matrix.WrappedPolygons[j].IntersectsSegment(a, b) {
				return nil, &ErrEntersSAM{Point: b}
			}
		}
	}

	return poly, nil
}

// ExpandLogged behaves like Expand but logs an error and returns a nil
// polyline (rather than failing the whole solve) if the invariant check
// fails, so that one drone's stale-matrix bug doesn't take down a solve
// covering other drones.
func ExpandLogged(lg *log.Logger, droneID string, waypoints []string, matrix *distmatrix.Matrix) []geom.Point {
	poly, err := Expand(waypoints, matrix)
	if err != nil {
		if lg != nil {
			lg.Errorf("drone %s: %v", droneID, err)
		}
		return nil
	}
	return poly
}
