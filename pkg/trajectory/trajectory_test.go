// pkg/trajectory/trajectory_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trajectory

import (
	"context"
	"testing"

	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/sam"
)

func TestExpandJoinsEdgesWithoutDuplicateJunctions(t *testing.T) {
	m, err := distmatrix.Compute(context.Background(), distmatrix.Input{
		Airports: []distmatrix.Waypoint{
			{ID: "A1", Pos: geom.Point{0, 0}},
			{ID: "A2", Pos: geom.Point{100, 0}},
		},
		Targets: []distmatrix.Waypoint{
			{ID: "T1", Pos: geom.Point{50, 0}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	poly, err := Expand([]string{"A1", "T1", "A2"}, m)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i < len(poly); i++ {
		if geom.Distance(poly[i-1], poly[i]) < geom.Epsilon {
			t.Errorf("duplicate junction point at index %d: %v == %v", i, poly[i-1], poly[i])
		}
	}
	if len(poly) < 3 {
		t.Fatalf("expected at least 3 points, got %d: %v", len(poly), poly)
	}
	if poly[0] != (geom.Point{0, 0}) || poly[len(poly)-1] != (geom.Point{100, 0}) {
		t.Errorf("endpoints = %v, %v; want A1, A2", poly[0], poly[len(poly)-1])
	}
}

func TestExpandSingleWaypointReturnsNil(t *testing.T) {
	poly, err := Expand([]string{"A1"}, &distmatrix.Matrix{})
	if err != nil {
		t.Fatal(err)
	}
	if poly != nil {
		t.Errorf("expected nil polyline for a single waypoint, got %v", poly)
	}
}

func TestExpandMissingEdgeIsReported(t *testing.T) {
	m, err := distmatrix.Compute(context.Background(), distmatrix.Input{
		Airports: []distmatrix.Waypoint{{ID: "A1", Pos: geom.Point{0, 0}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = Expand([]string{"A1", "Unknown"}, m)
	if err == nil {
		t.Fatal("expected a missing-edge error")
	}
	if _, ok := err.(*ErrMissingEdge); !ok {
		t.Errorf("error = %T, want *ErrMissingEdge", err)
	}
}

func TestExpandDetectsEntryIntoSAM(t *testing.T) {
	// Build a matrix by hand with a path that (incorrectly) cuts straight
	// through a SAM envelope, simulating a stale-matrix invariant violation.
	polys := sam.Wrap([]sam.SAM{{ID: "S1", Pos: geom.Point{50, 0}, Range: 20}})
	if len(polys) == 0 {
		t.Fatal("expected sam.Wrap to produce a polygon")
	}

	m := &distmatrix.Matrix{
		Labels: []string{"A1", "A2"},
		Dist:   [][]float64{{0, 100}, {100, 0}},
		Paths: map[[2]string][]geom.Point{
			{"A1", "A2"}: {{0, 0}, {100, 0}},
			{"A2", "A1"}: {{100, 0}, {0, 0}},
		},
		WrappedPolygons: polys,
	}

	_, err := Expand([]string{"A1", "A2"}, m)
	if err == nil {
		t.Fatal("expected an ErrEntersSAM violation")
	}
	if _, ok := err.(*ErrEntersSAM); !ok {
		t.Errorf("error = %T, want *ErrEntersSAM", err)
	}
}

func TestExpandLoggedReturnsNilOnFailureInsteadOfPanicking(t *testing.T) {
	poly := ExpandLogged(nil, "D1", []string{"A1", "Unknown"}, &distmatrix.Matrix{})
	if poly != nil {
		t.Errorf("expected nil polyline on failure, got %v", poly)
	}
}
