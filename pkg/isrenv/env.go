// pkg/isrenv/env.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package isrenv defines the typed mission environment (airports, targets,
// SAM zones, drone configurations) and the routes and solutions the
// planning pipeline produces from it.
package isrenv

import (
	"sort"
	"time"

	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/sam"
	"github.com/isrplan/engine/pkg/util"
)

// Airport is a fixed takeoff/landing waypoint. Ids always start with "A".
type Airport struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func (a Airport) Pos() geom.Point { return geom.Point{a.X, a.Y} }

// Target is a prioritized point of interest. Ids always start with "T".
type Target struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Type     string  `json:"type"` // one of A..E, uppercased
	Priority int     `json:"priority"`
}

func (t Target) Pos() geom.Point { return geom.Point{t.X, t.Y} }

// SAMZone is a circular no-fly zone.
type SAMZone struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Range float64 `json:"range"`
}

func (s SAMZone) Pos() geom.Point { return geom.Point{s.X, s.Y} }

// SyntheticStart is a non-airport waypoint introduced at a frozen
// checkpoint position. Ids match ^D\d+_START$.
type SyntheticStart struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func (s SyntheticStart) Pos() geom.Point { return geom.Point{s.X, s.Y} }

// Environment is the full, validated mission world: everything the
// allocator, solver, and trajectory planner read.
type Environment struct {
	Airports        []Airport        `json:"airports"`
	Targets         []Target         `json:"targets"`
	SAMs            []SAMZone        `json:"sams"`
	SyntheticStarts []SyntheticStart `json:"synthetic_starts,omitempty"`
}

// DroneConfig is the per-drone capability and budget configuration.
type DroneConfig struct {
	ID           string          `json:"id"`
	Enabled      bool            `json:"enabled"`
	FuelBudget   float64         `json:"fuel_budget"`
	StartAirport string          `json:"start_airport"`
	EndAirport   string          `json:"end_airport"` // "-" means any airport
	TargetAccess map[string]bool `json:"target_access"`
}

// Accepts reports whether this drone may visit a target of the given type.
func (d DroneConfig) Accepts(targetType string) bool {
	return d.TargetAccess[targetType]
}

// AnyAirport reports whether the drone's end airport is unconstrained.
func (d DroneConfig) AnyAirport() bool { return d.EndAirport == "-" }

// Route is one drone's planned (or empty, if infeasible) flight.
type Route struct {
	DroneID    string       `json:"drone_id"`
	Waypoints  []string     `json:"waypoints"`
	Trajectory []geom.Point `json:"trajectory"`
	Points     int          `json:"points"`
	Distance   float64      `json:"distance"`
	Warnings   []string     `json:"warnings,omitempty"`
}

// SolveStats is purely observational telemetry about how a Solution was
// produced; it never affects planning behavior.
type SolveStats struct {
	Duration         time.Duration  `json:"duration_ns"`
	DPStatesExplored int            `json:"dp_states_explored"`
	OptimizerPasses  map[string]int `json:"optimizer_passes,omitempty"`
}

// Solution is the result of solving an Environment for a set of drones.
type Solution struct {
	Routes             map[string]Route      `json:"routes"`
	Allocations        map[string][]string   `json:"allocations"`
	WrappedPolygons    []sam.WrappedPolygon  `json:"wrapped_polygons"`
	DistanceMatrixHash uint64                `json:"distance_matrix_hash"`
	ExcludedTargets    []string              `json:"excluded_targets,omitempty"`
	Stats              SolveStats            `json:"stats"`
}

// Hash returns a stable hash of the parts of the environment that affect
// the distance matrix: airport/target/SAM/synthetic-start ids and
// positions, rounded to geom.Epsilon so numerically-identical-but-jittered
// re-imports still hit the cache. It is the cache key for
// pkg/distmatrix.Cache and is recomputed whenever the environment changes.
func (e *Environment) Hash() uint64 {
	return util.HashString64(e.canonicalString())
}

func (e *Environment) canonicalString() string {
	round := func(v float64) float64 { return geom.Clamp(float64(int64(v/geom.Epsilon+0.5))*geom.Epsilon, -1e12, 1e12) }

	airports := append([]Airport(nil), e.Airports...)
	sort.Slice(airports, func(i, j int) bool { return airports[i].ID < airports[j].ID })

	targets := append([]Target(nil), e.Targets...)
	sort.Slice(targets, func(i, j int) bool { return targets[i].ID < targets[j].ID })

	sams := append([]SAMZone(nil), e.SAMs...)
	sort.Slice(sams, func(i, j int) bool { return sams[i].ID < sams[j].ID })

	starts := append([]SyntheticStart(nil), e.SyntheticStarts...)
	sort.Slice(starts, func(i, j int) bool { return starts[i].ID < starts[j].ID })

	var b []byte
	write := func(id string, x, y, extra float64) {
		b = append(b, id...)
		b = append(b, ':')
		b = appendFloat(b, round(x))
		b = append(b, ',')
		b = appendFloat(b, round(y))
		b = append(b, ',')
		b = appendFloat(b, round(extra))
		b = append(b, ';')
	}
	for _, a := range airports {
		write(a.ID, a.X, a.Y, 0)
	}
	for _, t := range targets {
		write(t.ID, t.X, t.Y, float64(t.Priority))
	}
	for _, s := range sams {
		write(s.ID, s.X, s.Y, s.Range)
	}
	for _, s := range starts {
		write(s.ID, s.X, s.Y, 0)
	}
	return string(b)
}

func appendFloat(b []byte, v float64) []byte {
	// Deterministic fixed-precision formatting; more than adequate given
	// values are already rounded to geom.Epsilon (1e-3).
	neg := v < 0
	if neg {
		v = -v
		b = append(b, '-')
	}
	scaled := int64(v*1000 + 0.5)
	whole, frac := scaled/1000, scaled%1000
	b = appendInt(b, whole)
	b = append(b, '.')
	b = append(b, byte('0'+frac/100), byte('0'+(frac/10)%10), byte('0'+frac%10))
	return b
}

func appendInt(b []byte, v int64) []byte {
	if v == 0 {
		return append(b, '0')
	}
	start := len(b)
	for v > 0 {
		b = append(b, byte('0'+v%10))
		v /= 10
	}
	for i, j := start, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}
