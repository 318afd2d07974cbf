// pkg/mission/state.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

import (
	"errors"

	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
	"github.com/isrplan/engine/pkg/log"
)

// Mode is one node of the mission state machine.
type Mode string

const (
	Idle           Mode = "IDLE"
	EditingEnv     Mode = "EDITING_ENV"
	DraftReady     Mode = "DRAFT_READY"
	ReadyToAnimate Mode = "READY_TO_ANIMATE"
	Animating      Mode = "ANIMATING"
	Paused         Mode = "PAUSED"
	Checkpoint     Mode = "CHECKPOINT"
)

// CheckpointSource records why the machine is in CHECKPOINT, which gates
// whether a solve is permitted from there.
type CheckpointSource string

const (
	NoCheckpoint CheckpointSource = "none"
	ReplayCut    CheckpointSource = "replay_cut"
)

// ErrTransitionNotPermitted is returned by every guarded transition method
// when the current mode (and, for CHECKPOINT, the checkpoint source and
// whether edits have occurred) doesn't allow it.
var ErrTransitionNotPermitted = errors.New("mission: transition not permitted from current mode")

// Permissions is the pure, UI-facing answer to "what can the user do right
// now" for a given mode; it never mutates anything.
type Permissions struct {
	EnterEdit      bool
	Solve          bool
	AcceptEdits    bool
	CancelEdits    bool
	AcceptSolution bool
	DiscardDraft   bool
	Optimize       bool
	Animate        bool
	Pause          bool
	Resume         bool
	Cut            bool
	Reset          bool
}

// permissions is a pure function of mode (plus the two pieces of state
// that affect CHECKPOINT's solve gate): no MissionState method may derive
// its guard from anything this function doesn't also consult, so the UI's
// idea of what's available never diverges from what a transition call
// would actually do.
func permissions(mode Mode, checkpointSource CheckpointSource, editsOccurred bool) Permissions {
	p := Permissions{Reset: true}
	switch mode {
	case Idle:
		p.EnterEdit = true
		p.Solve = true
	case EditingEnv:
		p.AcceptEdits = true
		p.CancelEdits = true
	case DraftReady:
		p.AcceptSolution = true
		p.DiscardDraft = true
		p.Optimize = true
	case ReadyToAnimate:
		p.Animate = true
	case Animating:
		p.Pause = true
		p.Cut = true
	case Paused:
		p.Resume = true
		p.Cut = true
	case Checkpoint:
		p.EnterEdit = true
		p.Solve = checkpointSource != ReplayCut || editsOccurred
	}
	return p
}

// MissionState is the single source of truth for which mode the mission
// is in and the committed Segment history backing it. All mutation goes
// through its guarded methods; Log (nil-safe, as every logger in this
// codebase is) records every transition and every rejected attempt.
type MissionState struct {
	Mode             Mode
	CheckpointSource CheckpointSource
	EditsOccurred    bool
	Store            Store
	Log              *log.Logger

	preEditMode Mode
	pendingCut  *cutResult
}

// New returns a MissionState in IDLE with an empty segment store.
func New(lg *log.Logger) *MissionState {
	return &MissionState{Mode: Idle, CheckpointSource: NoCheckpoint, Log: lg}
}

// Permissions returns what's currently allowed, for the UI to consult.
func (m *MissionState) Permissions() Permissions {
	return permissions(m.Mode, m.CheckpointSource, m.EditsOccurred)
}

func (m *MissionState) reject(action string) error {
	if m.Log != nil {
		m.Log.Debugf("mission: rejected %s from mode %s", action, m.Mode)
	}
	return ErrTransitionNotPermitted
}

func (m *MissionState) transition(to Mode) {
	if m.Log != nil {
		m.Log.Infof("mission: %s -> %s", m.Mode, to)
	}
	m.Mode = to
}

// EnterEdit moves to EDITING_ENV from IDLE or CHECKPOINT, clearing any
// checkpoint source and remembering the mode to restore on CancelEdits.
func (m *MissionState) EnterEdit() error {
	if !m.Permissions().EnterEdit {
		return m.reject("enter_edit")
	}
	m.preEditMode = m.Mode
	m.CheckpointSource = NoCheckpoint
	m.transition(EditingEnv)
	return nil
}

// AcceptEdits commits the edit session, moving to IDLE, or back to
// CHECKPOINT if the edit was entered from there (in which case
// editsOccurred is recorded so a subsequent solve is permitted).
func (m *MissionState) AcceptEdits() error {
	if !m.Permissions().AcceptEdits {
		return m.reject("accept_edits")
	}
	if m.preEditMode == Checkpoint {
		m.EditsOccurred = true
		m.transition(Checkpoint)
	} else {
		m.transition(Idle)
	}
	return nil
}

// CancelEdits discards the edit session and restores the mode EnterEdit
// was called from.
func (m *MissionState) CancelEdits() error {
	if !m.Permissions().CancelEdits {
		return m.reject("cancel_edits")
	}
	m.transition(m.preEditMode)
	return nil
}

// BeginSolve checks whether a solve may start; it performs no transition
// itself (the solve runs in pkg/planner), but a caller must check this
// before invoking the solver, and must call FinishSolve once it returns.
func (m *MissionState) BeginSolve() error {
	if !m.Permissions().Solve {
		return m.reject("solve")
	}
	return nil
}

// FinishSolve records a completed solve by moving to DRAFT_READY.
func (m *MissionState) FinishSolve() {
	m.transition(DraftReady)
}

// AcceptSolution commits the current draft as a new Segment and moves to
// READY_TO_ANIMATE. If a cut was computed since the last accepted
// segment (via Cut), its distance/positions/visited-targets are attached
// to the new Segment and the pending cut is consumed.
func (m *MissionState) AcceptSolution(env isrenv.Environment, drones []isrenv.DroneConfig, solution isrenv.Solution) (Segment, error) {
	if !m.Permissions().AcceptSolution {
		return Segment{}, m.reject("accept_solution")
	}

	var cutDistance float64
	var cutPositions map[string]geom.Point
	var visitedTargets []string
	isCheckpointReplan := m.pendingCut != nil
	if m.pendingCut != nil {
		cutDistance = m.pendingCut.MissionDistance
		cutPositions = m.pendingCut.FrozenPositions
		visitedTargets = m.pendingCut.VisitedTargets
	}

	seg := m.Store.AddSegment(env, drones, solution, cutDistance, cutPositions, visitedTargets, isCheckpointReplan)
	m.pendingCut = nil
	m.CheckpointSource = NoCheckpoint
	m.EditsOccurred = false
	m.transition(ReadyToAnimate)
	return seg, nil
}

// DiscardDraft abandons the current draft, returning to READY_TO_ANIMATE
// if a segment is already committed, or IDLE if none is.
func (m *MissionState) DiscardDraft() error {
	if !m.Permissions().DiscardDraft {
		return m.reject("discard_draft")
	}
	if m.Store.Len() > 0 {
		m.transition(ReadyToAnimate)
	} else {
		m.transition(Idle)
	}
	return nil
}

// Optimize checks whether a post-optimizer pass may run over the current
// draft; DRAFT_READY permits any number of these without leaving the mode.
func (m *MissionState) Optimize() error {
	if !m.Permissions().Optimize {
		return m.reject("optimize")
	}
	return nil
}

// Animate starts playback of the committed segments.
func (m *MissionState) Animate() error {
	if !m.Permissions().Animate {
		return m.reject("animate")
	}
	m.transition(Animating)
	return nil
}

// Pause suspends playback.
func (m *MissionState) Pause() error {
	if !m.Permissions().Pause {
		return m.reject("pause")
	}
	m.transition(Paused)
	return nil
}

// Resume continues playback after a Pause.
func (m *MissionState) Resume() error {
	if !m.Permissions().Resume {
		return m.reject("resume")
	}
	m.transition(Animating)
	return nil
}

// Complete ends a full playback pass, returning to READY_TO_ANIMATE.
func (m *MissionState) Complete() error {
	if m.Mode != Animating {
		return m.reject("complete")
	}
	m.transition(ReadyToAnimate)
	return nil
}

// BeginCut checks whether a cut may start (from ANIMATING or PAUSED) and,
// if so, moves to CHECKPOINT with checkpoint_source = replay_cut,
// remembering cut for AcceptSolution to attach to the next Segment.
func (m *MissionState) BeginCut(cut cutResult) error {
	if !m.Permissions().Cut {
		return m.reject("cut")
	}
	m.pendingCut = &cut
	m.CheckpointSource = ReplayCut
	m.EditsOccurred = false
	m.transition(Checkpoint)
	return nil
}

// Reset returns to IDLE, dropping every committed segment but the first
// (if any remain, they describe a mission already in progress whose
// starting point is still valid to resume from).
func (m *MissionState) Reset() error {
	m.Store.TruncateAfter(0)
	m.CheckpointSource = NoCheckpoint
	m.EditsOccurred = false
	m.transition(Idle)
	return nil
}
