// pkg/planner/io_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package planner

import (
	"testing"

	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
	"github.com/isrplan/engine/pkg/mission"
)

func sampleSegments() []mission.Segment {
	var s mission.Store
	env0 := isrenv.Environment{
		Airports: []isrenv.Airport{{ID: "A1", X: 0, Y: 0}, {ID: "A2", X: 100, Y: 0}},
		Targets:  []isrenv.Target{{ID: "T1", X: 20, Y: 0, Type: "A", Priority: 5}, {ID: "T2", X: 80, Y: 0, Type: "A", Priority: 3}},
	}
	drones0 := []isrenv.DroneConfig{{ID: "D1", Enabled: true, FuelBudget: 500, StartAirport: "A1", EndAirport: "A2", TargetAccess: map[string]bool{"A": true}}}
	s.AddSegment(env0, drones0, isrenv.Solution{}, 0, nil, nil, false)

	env1 := env0
	env1.Targets = []isrenv.Target{{ID: "T2", X: 80, Y: 0, Type: "A", Priority: 3}}
	env1.SyntheticStarts = []isrenv.SyntheticStart{{ID: "D1_START", X: 40, Y: 0}}
	drones1 := []isrenv.DroneConfig{{ID: "D1", Enabled: true, FuelBudget: 500, StartAirport: "D1_START", EndAirport: "A2", TargetAccess: map[string]bool{"A": true}}}
	s.AddSegment(env1, drones1, isrenv.Solution{}, 40, map[string]geom.Point{"D1": {40, 0}}, []string{"T1"}, true)

	return s.Segments()
}

func TestExportMissionImportAnyRoundTrips(t *testing.T) {
	segs := sampleSegments()
	raw, err := ExportMission(segs)
	if err != nil {
		t.Fatalf("ExportMission: %v", err)
	}

	imported, err := ImportAny(raw, "mission_N2_2026.json")
	if err != nil {
		t.Fatalf("ImportAny: %v", err)
	}
	if len(imported) != 2 {
		t.Fatalf("imported %d segments, want 2", len(imported))
	}
	if imported[1].CutDistance != 40 {
		t.Errorf("segment 1 cut distance = %v, want 40", imported[1].CutDistance)
	}
	if len(imported[1].Env.Targets) != 1 || imported[1].Env.Targets[0].ID != "T2" {
		t.Errorf("segment 1 targets = %v, want just T2", imported[1].Env.Targets)
	}
	if len(imported[1].Drones) != 1 || imported[1].Drones[0].StartAirport != "D1_START" {
		t.Errorf("segment 1 drones = %+v, want start airport D1_START", imported[1].Drones)
	}
}

func TestImportAnyK1UsesEnvironmentShape(t *testing.T) {
	env := &isrenv.Environment{Airports: []isrenv.Airport{{ID: "A1"}}}
	drones := []isrenv.DroneConfig{{ID: "D1", Enabled: true, FuelBudget: 100, StartAirport: "A1", EndAirport: "A1"}}
	raw, err := isrenv.ExportEnvironment(env, drones)
	if err != nil {
		t.Fatalf("ExportEnvironment: %v", err)
	}

	imported, err := ImportAny(raw, "env.json")
	if err != nil {
		t.Fatalf("ImportAny: %v", err)
	}
	if len(imported) != 1 {
		t.Fatalf("imported %d segments, want 1", len(imported))
	}
	if imported[0].IsCheckpointReplan {
		t.Error("a k=1 import should not be flagged as a checkpoint replan")
	}
}

func TestImportAnyLegacyShapeRequiresFilenameMarker(t *testing.T) {
	raw := []byte(`{
		"type": "segmented",
		"airports": [{"id":"A1","x":0,"y":0}],
		"targets": [{"id":"T1","x":20,"y":0,"type":"A","priority":5}],
		"sams": [],
		"segmentInfo": {"segmentCuts": [
			{"dronePositions": {"D1": [40, 0]}, "visitedTargets": ["T1"], "totalDistance": 40, "distanceTraveled": 42}
		]}
	}`)

	if _, err := ImportAny(raw, "mission.json"); err == nil {
		t.Error("expected legacy shape without a _N{k}_ filename marker to be rejected")
	}

	imported, err := ImportAny(raw, "mission_N2_old.json")
	if err != nil {
		t.Fatalf("ImportAny: %v", err)
	}
	if len(imported) != 2 {
		t.Fatalf("imported %d segments, want 2", len(imported))
	}
	if imported[1].CutDistance != 40 {
		t.Errorf("cut distance = %v, want the smaller of totalDistance/distanceTraveled (40)", imported[1].CutDistance)
	}
	if len(imported[1].VisitedTargets) != 1 || imported[1].VisitedTargets[0] != "T1" {
		t.Errorf("visited targets = %v, want [T1]", imported[1].VisitedTargets)
	}
}
