// pkg/isrenv/validate.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package isrenv

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/isrplan/engine/pkg/util"
)

var syntheticStartRE = regexp.MustCompile(`^D\d+_START$`)

var validTargetTypes = map[string]bool{"A": true, "B": true, "C": true, "D": true, "E": true}

// rawEnvironment mirrors Environment's JSON shape before validation and
// normalization; kept distinct so ParseEnvironment can accumulate errors
// against the as-written fields instead of a half-normalized Environment.
type rawEnvironment struct {
	Airports        []Airport        `json:"airports"`
	Targets         []Target         `json:"targets"`
	SAMs            []SAMZone        `json:"sams"`
	SyntheticStarts []SyntheticStart `json:"synthetic_starts"`
}

// ParseEnvironment validates and normalizes a JSON environment: it
// uppercases target types, checks id-space uniqueness and required id
// prefixes, clamps priority to [1,10], and rejects non-positive SAM ranges.
// All downstream packages accept only the Environment this returns.
func ParseEnvironment(raw []byte) (*Environment, error) {
	var re rawEnvironment
	if err := util.UnmarshalJSONBytes(raw, &re); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var el util.ErrorLogger
	el.Push("environment")

	// encoding/json silently ignores unrecognized keys, so a misspelled
	// field (e.g. "airprots") would otherwise parse as an empty section
	// with no error. CheckJSON re-walks the raw JSON against
	// rawEnvironment's field set and flags anything that doesn't match.
	util.CheckJSON[rawEnvironment](raw, &el)

	ids := make(map[string]bool)
	checkUnique := func(id string) {
		if ids[id] {
			el.ErrorString("duplicate id %q", id)
		}
		ids[id] = true
	}

	el.Push("airports")
	for i := range re.Airports {
		a := &re.Airports[i]
		if !strings.HasPrefix(a.ID, "A") {
			el.ErrorString("airport id %q must start with \"A\"", a.ID)
		}
		checkUnique(a.ID)
	}
	el.Pop()

	el.Push("targets")
	for i := range re.Targets {
		t := &re.Targets[i]
		if !strings.HasPrefix(t.ID, "T") {
			el.ErrorString("target id %q must start with \"T\"", t.ID)
		}
		checkUnique(t.ID)

		t.Type = strings.ToUpper(strings.TrimSpace(t.Type))
		if !validTargetTypes[t.Type] {
			el.ErrorString("target %q has unknown type %q", t.ID, t.Type)
		}

		if t.Priority < 1 {
			t.Priority = 1
		} else if t.Priority > 10 {
			t.Priority = 10
		}
	}
	el.Pop()

	el.Push("sams")
	for i := range re.SAMs {
		s := &re.SAMs[i]
		if s.Range <= 0 {
			el.ErrorString("SAM %q must have a positive range, got %v", s.ID, s.Range)
		}
		if s.ID != "" {
			checkUnique(s.ID)
		}
	}
	el.Pop()

	el.Push("synthetic_starts")
	for i := range re.SyntheticStarts {
		s := &re.SyntheticStarts[i]
		if !syntheticStartRE.MatchString(s.ID) {
			el.ErrorString("synthetic start id %q must match ^D\\d+_START$", s.ID)
		}
		checkUnique(s.ID)
	}
	el.Pop()

	el.Pop() // "environment"

	if el.HaveErrors() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, el.String())
	}

	return &Environment{
		Airports:        re.Airports,
		Targets:         re.Targets,
		SAMs:            re.SAMs,
		SyntheticStarts: re.SyntheticStarts,
	}, nil
}

// ValidateDroneConfigs checks that every drone's start/end airport resolves
// against env, and that fuel budgets are non-negative.
func ValidateDroneConfigs(env *Environment, drones []DroneConfig) error {
	known := make(map[string]bool)
	for _, a := range env.Airports {
		known[a.ID] = true
	}
	for _, s := range env.SyntheticStarts {
		known[s.ID] = true
	}

	var el util.ErrorLogger
	el.Push("drone_configs")
	seen := make(map[string]bool)
	for _, d := range drones {
		el.Push(d.ID)
		if seen[d.ID] {
			el.ErrorString("duplicate drone id %q", d.ID)
		}
		seen[d.ID] = true

		if !known[d.StartAirport] {
			el.ErrorString("start_airport %q does not resolve to an airport or synthetic start", d.StartAirport)
		}
		if !d.AnyAirport() && !known[d.EndAirport] {
			el.ErrorString("end_airport %q does not resolve to an airport or synthetic start", d.EndAirport)
		}
		if d.FuelBudget < 0 {
			el.ErrorString("fuel_budget must be >= 0, got %v", d.FuelBudget)
		}
		el.Pop()
	}
	el.Pop()

	if el.HaveErrors() {
		return fmt.Errorf("%w: %s", ErrInvalidInput, el.String())
	}
	return nil
}
