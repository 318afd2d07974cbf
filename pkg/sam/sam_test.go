// pkg/sam/sam_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sam

import (
	"testing"

	"github.com/isrplan/engine/pkg/geom"
)

func TestWrapClustersOverlapping(t *testing.T) {
	sams := []SAM{
		{ID: "s1", Pos: geom.Point{10, 10}, Range: 5},
		{ID: "s2", Pos: geom.Point{13, 10}, Range: 5}, // overlaps s1
		{ID: "s3", Pos: geom.Point{80, 80}, Range: 5}, // isolated
	}

	polys := Wrap(sams)
	if len(polys) != 2 {
		t.Fatalf("expected 2 clusters, got %d: %+v", len(polys), polys)
	}

	var sawMerged, sawIsolated bool
	for _, p := range polys {
		switch len(p.Members) {
		case 2:
			sawMerged = true
			if p.Members[0] != "s1" || p.Members[1] != "s2" {
				t.Errorf("expected merged cluster members [s1 s2], got %v", p.Members)
			}
		case 1:
			sawIsolated = true
			if p.Members[0] != "s3" {
				t.Errorf("expected isolated cluster member [s3], got %v", p.Members)
			}
		}
	}
	if !sawMerged || !sawIsolated {
		t.Errorf("expected one merged and one isolated cluster, got %+v", polys)
	}
}

func TestWrapDropsDegenerateHulls(t *testing.T) {
	// A single SAM still produces a valid (>=3 vertex) polygon approximating
	// its disk, since sampling a circle never degenerates.
	polys := Wrap([]SAM{{ID: "s1", Pos: geom.Point{50, 50}, Range: 10}})
	if len(polys) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(polys))
	}
	if len(polys[0].Vertices) < 3 {
		t.Errorf("expected a non-degenerate hull, got %d vertices", len(polys[0].Vertices))
	}
}

func TestWrappedPolygonContains(t *testing.T) {
	polys := Wrap([]SAM{{ID: "s1", Pos: geom.Point{50, 50}, Range: 10}})
	if len(polys) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(polys))
	}
	wp := polys[0]

	if !wp.Contains(geom.Point{50, 50}) {
		t.Error("expected the cluster center to be inside its own wrapped polygon")
	}
	if wp.Contains(geom.Point{90, 90}) {
		t.Error("expected a far-away point not to be inside")
	}
}

func TestWrappedPolygonIntersectsSegment(t *testing.T) {
	polys := Wrap([]SAM{{ID: "s1", Pos: geom.Point{50, 50}, Range: 10}})
	wp := polys[0]

	if !wp.IntersectsSegment(geom.Point{0, 50}, geom.Point{100, 50}) {
		t.Error("expected a segment through the cluster to intersect")
	}
	if wp.IntersectsSegment(geom.Point{0, 0}, geom.Point{5, 0}) {
		t.Error("expected a far-away segment not to intersect")
	}
}

func TestAnyContains(t *testing.T) {
	polys := Wrap([]SAM{
		{ID: "s1", Pos: geom.Point{20, 20}, Range: 5},
		{ID: "s2", Pos: geom.Point{80, 80}, Range: 5},
	})
	if len(polys) != 2 {
		t.Fatalf("expected 2 isolated clusters, got %d", len(polys))
	}

	idx, ok := AnyContains(polys, geom.Point{80, 80})
	if !ok {
		t.Fatal("expected point to be contained in some polygon")
	}
	if polys[idx].Members[0] != "s2" {
		t.Errorf("expected to match the s2 cluster, got %v", polys[idx].Members)
	}

	if _, ok := AnyContains(polys, geom.Point{50, 50}); ok {
		t.Error("expected the midpoint between clusters not to be contained")
	}
}
