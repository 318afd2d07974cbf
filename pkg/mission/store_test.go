// pkg/mission/store_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

import (
	"testing"

	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
)

func TestBuildCombinedRoutesJoinsAcrossSegments(t *testing.T) {
	var s Store
	seg0 := isrenv.Solution{Routes: map[string]isrenv.Route{
		"D1": {DroneID: "D1", Trajectory: []geom.Point{{0, 0}, {10, 0}, {20, 0}}},
	}}
	seg1 := isrenv.Solution{Routes: map[string]isrenv.Route{
		"D1": {DroneID: "D1", Trajectory: []geom.Point{{20, 0}, {20, 10}}},
	}}
	s.AddSegment(isrenv.Environment{}, nil, seg0, 0, nil, nil, false)
	s.AddSegment(isrenv.Environment{}, nil, seg1, 20, map[string]geom.Point{"D1": {20, 0}}, nil, true)

	poly, length := s.BuildCombinedRoutes("D1", 1)
	want := []geom.Point{{0, 0}, {10, 0}, {20, 0}, {20, 10}}
	if len(poly) != len(want) {
		t.Fatalf("poly = %v, want %v", poly, want)
	}
	for i := range want {
		if poly[i] != want[i] {
			t.Errorf("poly[%d] = %v, want %v", i, poly[i], want[i])
		}
	}
	if length != 30 {
		t.Errorf("length = %v, want 30", length)
	}
}

// TestBuildCombinedRoutesTruncatesEarlierSegments exercises the case the
// previous test couldn't: segment 0's full planned trajectory (length 80,
// to {80,0}) runs well past where the mission was actually cut
// (CutDistance 40 on segment 1), so segment 0 must be truncated to its
// first 40 units before joining with segment 1's full suffix.
func TestBuildCombinedRoutesTruncatesEarlierSegments(t *testing.T) {
	var s Store
	seg0 := isrenv.Solution{Routes: map[string]isrenv.Route{
		"D1": {DroneID: "D1", Trajectory: []geom.Point{{0, 0}, {40, 0}, {80, 0}}},
	}}
	seg1 := isrenv.Solution{Routes: map[string]isrenv.Route{
		"D1": {DroneID: "D1", Trajectory: []geom.Point{{40, 0}, {40, 10}}},
	}}
	s.AddSegment(isrenv.Environment{}, nil, seg0, 0, nil, nil, false)
	s.AddSegment(isrenv.Environment{}, nil, seg1, 40, map[string]geom.Point{"D1": {40, 0}}, nil, true)

	poly, length := s.BuildCombinedRoutes("D1", 1)
	want := []geom.Point{{0, 0}, {40, 0}, {40, 10}}
	if len(poly) != len(want) {
		t.Fatalf("poly = %v, want %v", poly, want)
	}
	for i := range want {
		if poly[i] != want[i] {
			t.Errorf("poly[%d] = %v, want %v", i, poly[i], want[i])
		}
	}
	if length != 50 {
		t.Errorf("length = %v, want 50", length)
	}

	// upTo=0 keeps segment 0's full, untruncated trajectory.
	poly0, length0 := s.BuildCombinedRoutes("D1", 0)
	if len(poly0) != 3 || poly0[2] != (geom.Point{80, 0}) {
		t.Errorf("poly0 = %v, want full segment-0 trajectory ending at {80 0}", poly0)
	}
	if length0 != 80 {
		t.Errorf("length0 = %v, want 80", length0)
	}
}

func TestTruncateAfterDropsLaterSegments(t *testing.T) {
	var s Store
	for i := 0; i < 4; i++ {
		s.AddSegment(isrenv.Environment{}, nil, isrenv.Solution{}, float64(i), nil, nil, i > 0)
	}
	s.TruncateAfter(1)
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	if s.Segments()[1].CutDistance != 1 {
		t.Errorf("segments()[1].CutDistance = %v, want 1", s.Segments()[1].CutDistance)
	}
}

func TestReplaceSegmentOnlyAllowsIndexZero(t *testing.T) {
	var s Store
	s.AddSegment(isrenv.Environment{}, nil, isrenv.Solution{}, 0, nil, nil, false)
	s.AddSegment(isrenv.Environment{}, nil, isrenv.Solution{}, 10, nil, nil, true)

	if err := s.ReplaceSegment(1, isrenv.Environment{}, nil, isrenv.Solution{}); err == nil {
		t.Error("expected an error replacing a non-zero segment")
	}

	newEnv := isrenv.Environment{Airports: []isrenv.Airport{{ID: "A9"}}}
	if err := s.ReplaceSegment(0, newEnv, nil, isrenv.Solution{}); err != nil {
		t.Fatalf("ReplaceSegment(0, ...): %v", err)
	}
	if got := s.Segments()[0].Env.Airports; len(got) != 1 || got[0].ID != "A9" {
		t.Errorf("segment 0 env not replaced: %+v", got)
	}
}

func TestMergeEnvForwardFromCurrentIsIdempotent(t *testing.T) {
	var s Store
	s.AddSegment(isrenv.Environment{}, nil, isrenv.Solution{}, 0, nil, []string{"T1"}, false)
	s.AddSegment(isrenv.Environment{}, nil, isrenv.Solution{}, 10, nil, []string{"T2"}, true)

	env1, visited1 := s.MergeEnvForwardFromCurrent(1)
	env2, visited2 := s.MergeEnvForwardFromCurrent(1)

	if len(visited1) != 2 || visited1[0] != "T1" || visited1[1] != "T2" {
		t.Errorf("visited = %v, want [T1 T2]", visited1)
	}
	if len(visited1) != len(visited2) || visited1[0] != visited2[0] || visited1[1] != visited2[1] {
		t.Errorf("not idempotent: %v vs %v", visited1, visited2)
	}
	_ = env1
	_ = env2
}
