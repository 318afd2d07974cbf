// pkg/mission/segment.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package mission implements the segmented mission state machine: a
// small guarded-mutation mode graph (IDLE/EDITING_ENV/DRAFT_READY/
// READY_TO_ANIMATE/ANIMATING/PAUSED/CHECKPOINT) plus the append-only
// store of accepted Segments it commits to, mirroring the way the
// teacher's Sim keeps a live State that's only ever mutated through
// defined operations and occasionally handed out as an immutable
// snapshot.
package mission

import (
	"github.com/brunoga/deep"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
)

// Segment is one accepted solve: an immutable record of the environment
// and solution it was produced from, plus (for anything but the first
// segment) the checkpoint it continues from. Once appended to a Store it
// is never mutated; Store.TruncateAfter and Store.ReplaceSegment operate
// by replacing store entries, not by editing a Segment in place.
type Segment struct {
	Index              int
	Env                isrenv.Environment
	Drones             []isrenv.DroneConfig
	Solution           isrenv.Solution
	CutDistance        float64
	CutPositions       map[string]geom.Point
	VisitedTargets     []string
	IsCheckpointReplan bool
}

// newSegment deep-copies env and solution so that later mutation of the
// caller's live draft objects can never reach the committed Segment —
// the same ownership discipline the teacher's Sim enforces between its
// live State and the State snapshots handed to clients.
func newSegment(index int, env isrenv.Environment, drones []isrenv.DroneConfig, solution isrenv.Solution, cutDistance float64, cutPositions map[string]geom.Point, visitedTargets []string, isCheckpointReplan bool) Segment {
	return Segment{
		Index:              index,
		Env:                deep.MustCopy(env),
		Drones:             deep.MustCopy(drones),
		Solution:           deep.MustCopy(solution),
		CutDistance:        cutDistance,
		CutPositions:       deep.MustCopy(cutPositions),
		VisitedTargets:     append([]string(nil), visitedTargets...),
		IsCheckpointReplan: isCheckpointReplan,
	}
}
