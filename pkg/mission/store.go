// pkg/mission/store.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

import (
	"fmt"

	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
	"github.com/isrplan/engine/pkg/util"
)

// Store is the append-only sequence of committed Segments behind a
// mission. It is confined to the single thread that owns the MissionState
// that wraps it and is never shared, so it carries no locking of its own.
type Store struct {
	segments []Segment
}

// Segments returns the store's current segments, in order.
func (s *Store) Segments() []Segment { return s.segments }

// Len reports how many segments are committed.
func (s *Store) Len() int { return len(s.segments) }

// AddSegment appends a new immutable Segment, deep-copying env, drones,
// and solution so later mutation of the live draft can't reach it.
func (s *Store) AddSegment(env isrenv.Environment, drones []isrenv.DroneConfig, solution isrenv.Solution, cutDistance float64, cutPositions map[string]geom.Point, visitedTargets []string, isCheckpointReplan bool) Segment {
	seg := newSegment(len(s.segments), env, drones, solution, cutDistance, cutPositions, visitedTargets, isCheckpointReplan)
	s.segments = append(s.segments, seg)
	return seg
}

// TruncateAfter drops every segment after index (inclusive of index+1
// onward), used when a cut happens mid-replay through an earlier
// checkpoint: the segments describing the discarded future are dropped.
func (s *Store) TruncateAfter(index int) {
	if index+1 >= len(s.segments) {
		return
	}
	s.segments = append([]Segment(nil), s.segments[:index+1]...)
}

// ReplaceSegment replaces the segment at index with a freshly solved one,
// preserving its cut metadata. Only the first segment (index 0) may be
// replaced this way — every later segment is anchored to a checkpoint cut
// that already happened and must not be rewritten.
func (s *Store) ReplaceSegment(index int, env isrenv.Environment, drones []isrenv.DroneConfig, solution isrenv.Solution) error {
	if index != 0 {
		return fmt.Errorf("mission: only segment 0 may be replaced, got index %d", index)
	}
	if index >= len(s.segments) {
		return fmt.Errorf("mission: no segment at index %d", index)
	}
	prev := s.segments[index]
	s.segments[index] = newSegment(index, env, drones, solution, prev.CutDistance, prev.CutPositions, prev.VisitedTargets, prev.IsCheckpointReplan)
	return nil
}

// BuildCombinedRoutes concatenates droneID's trajectory across every
// committed segment up to and including upTo into one polyline,
// de-duplicating the junction between consecutive segments (the
// synthetic-start point every checkpoint-replan segment begins at) within
// geom.Epsilon, and returns its total length alongside it. Every segment
// before upTo is truncated at the arc-length distance its successor's cut
// actually occurred at (segments[i+1].CutDistance - segments[i].CutDistance,
// segment-relative): a segment's full planned trajectory usually runs
// further than where the mission was actually cut, and replaying it in
// full would retrace ground the drone never flew. Only the current
// segment (upTo) keeps its full planned trajectory, since no cut has
// happened inside it yet.
func (s *Store) BuildCombinedRoutes(droneID string, upTo int) ([]geom.Point, float64) {
	if upTo < 0 || upTo >= len(s.segments) {
		return nil, 0
	}

	polys := make([][]geom.Point, 0, upTo+1)
	for i := 0; i <= upTo; i++ {
		r, ok := s.segments[i].Solution.Routes[droneID]
		if !ok {
			continue
		}
		traj := r.Trajectory
		if i < upTo {
			cutAt := s.segments[i+1].CutDistance - s.segments[i].CutDistance
			prefix, _, _, _, _, _ := geom.SplitPolylineAtDistance(traj, cutAt)
			traj = prefix
		}
		polys = append(polys, traj)
	}
	combined := geom.JoinPolylines(polys...)
	return combined, geom.PolylineLength(combined)
}

// MergeEnvForwardFromCurrent rebuilds the environment as it stood after
// segment idx was accepted: the union of every target ever visited up to
// and including idx is recorded, and the environment returned is segment
// idx's own (post-cut) environment, which already excludes them. Calling
// this repeatedly with the same idx is idempotent — it only ever reads
// committed segments, never mutates the store.
func (s *Store) MergeEnvForwardFromCurrent(idx int) (isrenv.Environment, []string) {
	if idx < 0 || idx >= len(s.segments) {
		return isrenv.Environment{}, nil
	}

	visited := make(map[string]bool)
	for i := 0; i <= idx; i++ {
		for _, t := range s.segments[i].VisitedTargets {
			visited[t] = true
		}
	}

	return s.segments[idx].Env, util.SortedMapKeys(visited)
}
